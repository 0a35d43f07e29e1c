package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ha1tch/graphkit/pkg/diagram"
	"github.com/ha1tch/graphkit/pkg/sample"
	"github.com/ha1tch/graphkit/pkg/vec"
)

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("bad coordinate: %w", err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("bad coordinate %q: not finite", s)
		}
		out[i] = f
	}
	return out, nil
}

func fmtVec(v vec.Vec) string {
	return fmt.Sprintf("(%.4g, %.4g)", v.X, v.Y)
}

// names inverts the sample's name maps.
func names(sc sample.Scene) map[diagram.Ref]string {
	out := make(map[diagram.Ref]string, len(sc.Nodes)+len(sc.Edges))
	for name, id := range sc.Nodes {
		out[diagram.NodeRef(id)] = name
	}
	for name, id := range sc.Edges {
		out[diagram.EdgeRef(id)] = name
	}
	return out
}

func describe(w io.Writer, r diagram.Ref, name string) {
	fmt.Fprintf(w, "  %s %s", Brand.Sprint(r.String()), Info.Sprint(name))
}

func hitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hit [--] <x> <y>",
		Short: "Report the drawable under a canvas point",
		Long: "Report the drawable under a canvas point. Put -- before the\n" +
			"coordinates when one is negative, or it is read as a flag.",
		Example: "  graphkit hit 0 0\n  graphkit hit -- -5 0",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			xy, err := parseFloats(args)
			if err != nil {
				return err
			}
			g, sc, err := a.scene()
			if err != nil {
				return err
			}
			p := vec.V(xy[0], xy[1])
			w := cmd.OutOrStdout()
			h, ok := g.HitTest(p, diagram.Ref{})
			if !ok {
				fmt.Fprintln(w, Subtle.Sprintf("  nothing at %s", fmtVec(p)))
				return nil
			}
			describe(w, h.Ref, names(sc)[h.Ref])
			if _, isNode := h.Ref.Node(); isNode {
				fmt.Fprintf(w, " %s offset %s\n", h.Node.Zone, fmtVec(h.Node.Offset))
				return nil
			}
			fmt.Fprintf(w, " nearer %s\n", h.End)
			return nil
		},
	}
}

func bandCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "band [--] <x0> <y0> <x1> <y1>",
		Short: "List the drawables a selection rectangle touches",
		Long: "List the drawables a selection rectangle touches. Put -- before\n" +
			"the coordinates when any is negative, or it is read as a flag.",
		Example: "  graphkit band 0 0 500 300\n  graphkit band -- -100 -100 1000 1000",
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseFloats(args)
			if err != nil {
				return err
			}
			g, sc, err := a.scene()
			if err != nil {
				return err
			}
			r := vec.RectFrom(vec.V(c[0], c[1]), vec.V(c[2], c[3]))
			w := cmd.OutOrStdout()
			refs := g.HitRect(r)
			if len(refs) == 0 {
				fmt.Fprintln(w, Subtle.Sprint("  nothing selected"))
				return nil
			}
			nm := names(sc)
			for _, ref := range refs {
				describe(w, ref, nm[ref])
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}

func curveName(c diagram.Curve) string {
	switch c.(type) {
	case diagram.Straight:
		return "straight"
	case diagram.Quadratic:
		return "quadratic"
	case diagram.Cubic:
		return "cubic"
	case diagram.Loop:
		return "loop"
	}
	return "-"
}

func infoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the nodes and edges of the sample diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, sc, err := a.scene()
			if err != nil {
				return err
			}
			nm := names(sc)
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, Brand.Sprint("nodes"))
			var rows [][]string
			for _, n := range g.Nodes() {
				rows = append(rows, []string{
					strconv.FormatInt(int64(n.ID), 10),
					nm[diagram.NodeRef(n.ID)],
					n.Shape.String(),
					fmtVec(n.Pos),
					fmt.Sprintf("%gx%g", n.Size.X, n.Size.Y),
					strconv.Itoa(len(n.Anchors)),
				})
			}
			table(w, []string{"ID", "NAME", "SHAPE", "POS", "SIZE", "ANCHORS"}, rows)

			fmt.Fprintln(w)
			fmt.Fprintln(w, Brand.Sprint("edges"))
			rows = nil
			for _, e := range g.Edges() {
				rows = append(rows, []string{
					strconv.FormatInt(int64(e.ID), 10),
					nm[diagram.EdgeRef(e.ID)],
					fmt.Sprintf("%s -> %s", nm[diagram.NodeRef(e.Src)], nm[diagram.NodeRef(e.Dst)]),
					curveName(e.Path),
					e.Line.String(),
					strconv.Quote(e.Label),
				})
			}
			table(w, []string{"ID", "NAME", "ENDS", "CURVE", "LINE", "LABEL"}, rows)
			return nil
		},
	}
}
