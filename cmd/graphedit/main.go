// Command graphedit is a mouse-driven terminal diagram editor.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ha1tch/graphkit/pkg/config"
)

func main() {
	var (
		cfgPath string
		logPath string
		empty   bool
	)
	cmd := &cobra.Command{
		Use:          "graphedit",
		Short:        "Edit node/edge diagrams in the terminal",
		Long:         "Edit node/edge diagrams in the terminal. Drag nodes to move them,\ndrag from a node's rim to connect it, drag an edge end to re-attach it.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if logPath != "" {
				cfg.Log.File = logPath
			}
			log, closer, err := cfg.Logger()
			if err != nil {
				return err
			}
			defer closer.Close()

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("creating screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initialising screen: %w", err)
			}
			defer screen.Fini()
			screen.EnableMouse(tcell.MouseMotionEvents)
			screen.Clear()

			ed, err := newEditor(screen, cfg, log, empty)
			if err != nil {
				return err
			}
			log.Info("editor started",
				slog.Int("nodes", len(ed.g.Nodes())),
				slog.Int("edges", len(ed.g.Edges())))
			ed.run()
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "config file (default ~/.graphkit.toml)")
	cmd.Flags().StringVar(&logPath, "log", "", "log file (overrides the config)")
	cmd.Flags().BoolVar(&empty, "empty", false, "start with an empty canvas instead of the sample")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("graphedit: %v", err))
		os.Exit(1)
	}
}
