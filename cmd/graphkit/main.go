// Command graphkit renders and probes the sample diagram.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ha1tch/graphkit/pkg/config"
	"github.com/ha1tch/graphkit/pkg/diagram"
	"github.com/ha1tch/graphkit/pkg/sample"
)

var version = "0.3.0"

// app carries the state shared by the subcommands.
type app struct {
	configPath string
	cfg        *config.Config
	log        *slog.Logger
	closeLog   io.Closer
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	log, closer, err := cfg.Logger()
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closeLog = cfg, log, closer
	return nil
}

// scene builds the sample graph with the configured hit margin.
func (a *app) scene() (*diagram.Graph, sample.Scene, error) {
	return sample.New(
		diagram.WithLogger(a.log),
		diagram.WithHitMargin(a.cfg.Hit.EdgeMargin),
	)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "graphkit",
		Short:         "graphkit renders and probes node/edge diagrams",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closeLog != nil {
				a.closeLog.Close()
			}
		},
	}
	root.SetVersionTemplate("graphkit {{ .Version }}\n")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.graphkit.toml)")

	root.AddCommand(
		renderCmd(a),
		hitCmd(a),
		bandCmd(a),
		infoCmd(a),
		configCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, Bad.Sprint("graphkit: ")+err.Error())
		os.Exit(1)
	}
}
