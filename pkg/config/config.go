// Package config loads and saves graphkit settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ha1tch/graphkit/pkg/canvas"
	"github.com/ha1tch/graphkit/pkg/render"
	"github.com/ha1tch/graphkit/pkg/vec"
)

// ErrInvalid is returned for a config file with unknown keys or values out
// of range.
var ErrInvalid = errors.New("invalid config")

// Config holds graphkit settings.
type Config struct {
	Theme    ThemeConfig    `toml:"theme"`
	Viewport ViewportConfig `toml:"viewport"`
	Render   RenderConfig   `toml:"render"`
	Hit      HitConfig      `toml:"hit"`
	Log      LogConfig      `toml:"log"`
}

// ThemeConfig holds colours as hex strings ("#rrggbb").
type ThemeConfig struct {
	Background string  `toml:"background"`
	NodeFill   string  `toml:"node_fill"`
	NodeBorder string  `toml:"node_border"`
	Text       string  `toml:"text"`
	Edge       string  `toml:"edge"`
	Selected   string  `toml:"selected"`
	Hover      string  `toml:"hover"`
	Ghost      string  `toml:"ghost"`
	HoverMix   float64 `toml:"hover_mix"`
	ShadowBlur float64 `toml:"shadow_blur"`
}

// ViewportConfig is the initial view of the editor.
type ViewportConfig struct {
	Scale   float64 `toml:"scale"`
	OriginX float64 `toml:"origin_x"`
	OriginY float64 `toml:"origin_y"`
}

// RenderConfig controls image export.
type RenderConfig struct {
	Format      string  `toml:"format"` // "png" or "svg"
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	Padding     int     `toml:"padding"`
	Supersample int     `toml:"supersample"`
	FontSize    float64 `toml:"font_size"`
}

// HitConfig tunes pointer tolerances, in canvas units.
type HitConfig struct {
	ClickSlop  float64 `toml:"click_slop"`
	EdgeMargin float64 `toml:"edge_margin"`
}

// LogConfig selects the log destination. An empty file disables logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	th := render.DefaultTheme()
	opts := render.DefaultOptions()
	return &Config{
		Theme: ThemeConfig{
			Background: hex(th.Background),
			NodeFill:   hex(th.NodeFill),
			NodeBorder: hex(th.NodeBorder),
			Text:       hex(th.Text),
			Edge:       hex(th.Edge),
			Selected:   hex(th.Selected),
			Hover:      hex(th.Hover),
			Ghost:      hex(th.Ghost),
			HoverMix:   th.HoverMix,
			ShadowBlur: th.ShadowBlur,
		},
		Viewport: ViewportConfig{Scale: 1},
		Render: RenderConfig{
			Format:      "png",
			Width:       opts.Width,
			Height:      opts.Height,
			Padding:     opts.Padding,
			Supersample: opts.Supersample,
			FontSize:    opts.FontSize,
		},
		Hit: HitConfig{ClickSlop: 3, EdgeMargin: 6},
		Log: LogConfig{Level: "info"},
	}
}

func hex(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// Path returns the default config file path.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".graphkit.toml"
	}
	return filepath.Join(home, ".graphkit.toml")
}

// Load reads the config at path, or at Path when path is empty. Keys the
// file leaves out keep their defaults; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if extra := md.Undecoded(); len(extra) > 0 {
		keys := make([]string, len(extra))
		for i, k := range extra {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("load config %s: unknown keys %s: %w", path, strings.Join(keys, ", "), ErrInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, or to Path when path is empty.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = Path()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if err := writeConfig(f, cfg); err != nil {
		f.Close()
		return fmt.Errorf("save config: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

func writeConfig(w io.Writer, cfg *Config) error {
	if _, err := io.WriteString(w, "# graphkit configuration\n"); err != nil {
		return err
	}
	return cfg.Encode(w)
}

// Encode writes cfg as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks every value and returns an error wrapping ErrInvalid
// for the first bad one.
func (c *Config) Validate() error {
	if _, err := c.RenderTheme(); err != nil {
		return err
	}
	for _, f := range []struct {
		key string
		val float64
	}{
		{"theme.hover_mix", c.Theme.HoverMix},
		{"theme.shadow_blur", c.Theme.ShadowBlur},
		{"viewport.scale", c.Viewport.Scale},
		{"viewport.origin_x", c.Viewport.OriginX},
		{"viewport.origin_y", c.Viewport.OriginY},
		{"render.font_size", c.Render.FontSize},
		{"hit.click_slop", c.Hit.ClickSlop},
		{"hit.edge_margin", c.Hit.EdgeMargin},
	} {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			return fmt.Errorf("%s %v is not finite: %w", f.key, f.val, ErrInvalid)
		}
	}
	if c.Theme.HoverMix < 0 || c.Theme.HoverMix > 1 {
		return fmt.Errorf("theme.hover_mix %v outside [0, 1]: %w", c.Theme.HoverMix, ErrInvalid)
	}
	if c.Theme.ShadowBlur < 0 {
		return fmt.Errorf("theme.shadow_blur %v: %w", c.Theme.ShadowBlur, ErrInvalid)
	}
	if c.Viewport.Scale <= 0 {
		return fmt.Errorf("viewport.scale %v: %w", c.Viewport.Scale, ErrInvalid)
	}
	switch c.Render.Format {
	case "png", "svg":
	default:
		return fmt.Errorf("render.format %q: %w", c.Render.Format, ErrInvalid)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size %dx%d: %w", c.Render.Width, c.Render.Height, ErrInvalid)
	}
	if c.Render.Padding < 0 || c.Render.Supersample < 1 || c.Render.FontSize <= 0 {
		return fmt.Errorf("render padding, supersample or font_size: %w", ErrInvalid)
	}
	if c.Hit.ClickSlop < 0 || c.Hit.EdgeMargin < 0 {
		return fmt.Errorf("hit tolerances must not be negative: %w", ErrInvalid)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

func parseColor(key, s string) (color.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("theme.%s %q: %w", key, s, ErrInvalid)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}, nil
}

// RenderTheme returns the render theme the config describes.
func (c *Config) RenderTheme() (render.Theme, error) {
	th := render.DefaultTheme()
	fields := []struct {
		key string
		val string
		dst *color.Color
	}{
		{"background", c.Theme.Background, &th.Background},
		{"node_fill", c.Theme.NodeFill, &th.NodeFill},
		{"node_border", c.Theme.NodeBorder, &th.NodeBorder},
		{"text", c.Theme.Text, &th.Text},
		{"edge", c.Theme.Edge, &th.Edge},
		{"selected", c.Theme.Selected, &th.Selected},
		{"hover", c.Theme.Hover, &th.Hover},
		{"ghost", c.Theme.Ghost, &th.Ghost},
	}
	for _, f := range fields {
		col, err := parseColor(f.key, f.val)
		if err != nil {
			return render.Theme{}, err
		}
		*f.dst = col
	}
	th.Band = th.NodeBorder
	th.HoverMix = c.Theme.HoverMix
	th.ShadowBlur = c.Theme.ShadowBlur
	return th, nil
}

// RenderOptions returns the export options the config describes.
func (c *Config) RenderOptions() (render.Options, error) {
	th, err := c.RenderTheme()
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Width:       c.Render.Width,
		Height:      c.Render.Height,
		Padding:     c.Render.Padding,
		FontSize:    c.Render.FontSize,
		Supersample: c.Render.Supersample,
		Theme:       th,
	}, nil
}

// View returns the configured viewport.
func (c *Config) View() canvas.Viewport {
	return canvas.Viewport{Scale: c.Viewport.Scale, Pan: vec.V(c.Viewport.OriginX, c.Viewport.OriginY)}
}

// LogLevel parses the configured level name.
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", c.Log.Level, ErrInvalid)
	}
	return l, nil
}

// Logger opens the configured log file. Without a file the logger
// discards everything. The returned closer must be closed by the caller.
func (c *Config) Logger() (*slog.Logger, io.Closer, error) {
	level, err := c.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	if c.Log.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}
