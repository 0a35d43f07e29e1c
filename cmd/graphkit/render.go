package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/graphkit/pkg/render"
)

func renderCmd(a *app) *cobra.Command {
	var (
		out    string
		format string
		width  int
		height int
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the sample diagram to PNG or SVG",
		Long: "Render the sample diagram. The format follows --format, then the\n" +
			"output file extension, then the config file. Use -o - for stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.cfg.RenderOptions()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("width") {
				opts.Width = width
			}
			if cmd.Flags().Changed("height") {
				opts.Height = height
			}
			if format == "" {
				format = formatOf(out, a.cfg.Render.Format)
			}
			if out == "" {
				out = "graphkit." + format
			}

			g, _, err := a.scene()
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("render: %w", err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "png":
				err = render.PNG(g, w, opts)
			case "svg":
				err = render.SVG(g, w, opts)
			default:
				return fmt.Errorf("render: unknown format %q", format)
			}
			if err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
					Good.Sprint("wrote"), out,
					Subtle.Sprintf("(%s, %dx%d)", format, opts.Width, opts.Height))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file, - for stdout (default graphkit.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "png or svg")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "image height in pixels")
	return cmd
}

// formatOf picks the format from a file extension, else def.
func formatOf(path, def string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".svg":
		return "svg"
	}
	return def
}
