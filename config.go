package digitalrain

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every engine and host setting.
type Config struct {
	CellSize      int     `yaml:"cell_size"`
	ParticleCount int     `yaml:"particle_count"`
	Interactive   bool    `yaml:"interactive"`
	Intensity     float64 `yaml:"intensity"`
	Seed          uint64  `yaml:"seed"`
	Palette       string  `yaml:"palette"`
	FontPath      string  `yaml:"font_path"`

	Background string `yaml:"background"`
	Primary    string `yaml:"primary"`
	Accent     string `yaml:"accent"`

	Effects EffectsConfig `yaml:"effects"`
	Window  WindowConfig  `yaml:"window"`

	ScreenshotDir string `yaml:"screenshot_dir"`
	Debug         bool   `yaml:"debug"`
}

// EffectsConfig toggles the optional generators and decorations.
type EffectsConfig struct {
	Particles   bool `yaml:"particles"`
	Waves       bool `yaml:"waves"`
	Glitch      bool `yaml:"glitch"`
	Tear        bool `yaml:"tear"`
	Pulse       bool `yaml:"pulse"`
	Network     bool `yaml:"network"`
	Corruption  bool `yaml:"corruption"`
	SensorNoise bool `yaml:"sensor_noise"`
}

// WindowConfig is read by the desktop host only.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	TPS    int    `yaml:"tps"`
}

// DefaultConfig returns the embedded defaults.
func DefaultConfig() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		panic(fmt.Sprintf("digitalrain: embedded defaults: %v", err))
	}
	return cfg
}

// LoadConfig returns the defaults overlaid with the YAML file at path. An
// empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("digitalrain: reading config file: %w", err)
	}
	// Unmarshal into the same struct; only keys present in the file change.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("digitalrain: parsing config file: %w", err)
	}
	return cfg, nil
}

// WriteYAML writes the configuration to path.
func (c Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("digitalrain: marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("digitalrain: writing config file: %w", err)
	}
	return nil
}

// Validate reports every out-of-range value.
func (c Config) Validate() error {
	var errs []error
	if c.CellSize < 4 || c.CellSize > 128 {
		errs = append(errs, fmt.Errorf("cell_size %d out of range [4, 128]", c.CellSize))
	}
	if c.ParticleCount < 0 || c.ParticleCount > 5000 {
		errs = append(errs, fmt.Errorf("particle_count %d out of range [0, 5000]", c.ParticleCount))
	}
	if c.Intensity < 0 || c.Intensity > 5 {
		errs = append(errs, fmt.Errorf("intensity %g out of range [0, 5]", c.Intensity))
	}
	if _, err := LookupPalette(c.Palette); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Theme(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("digitalrain: invalid config: %w", err)
	}
	return nil
}

// Theme parses the configured colours.
func (c Config) Theme() (Theme, error) {
	t := DefaultTheme
	var err error
	if t.Background, err = parseHex(c.Background, t.Background); err != nil {
		return DefaultTheme, fmt.Errorf("background: %w", err)
	}
	if t.Primary, err = parseHex(c.Primary, t.Primary); err != nil {
		return DefaultTheme, fmt.Errorf("primary: %w", err)
	}
	if t.Accent, err = parseHex(c.Accent, t.Accent); err != nil {
		return DefaultTheme, fmt.Errorf("accent: %w", err)
	}
	t.Grid = t.Primary.WithAlpha(DefaultTheme.Grid.A)
	return t, nil
}

// parseHex parses "#rrggbb" or "#rgb". Empty strings return fallback.
func parseHex(s string, fallback Color) (Color, error) {
	if s == "" {
		return fallback, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback, err
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}
