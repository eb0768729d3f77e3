// Package config loads the overlay description driven by the domlayer CLI.
// Files are TOML or YAML, chosen by extension.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/domlayer"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Defaults applied by Load.
const (
	DefaultTPS     = 60
	DefaultFrames  = 120
	DefaultTimeout = 10 * time.Second
)

// Config describes one overlay run.
type Config struct {
	URL       string        `toml:"url" yaml:"url"`
	RemoteURL string        `toml:"remote_url" yaml:"remote_url"`
	Headful   bool          `toml:"headful" yaml:"headful"`
	TPS       int           `toml:"tps" yaml:"tps"`
	Frames    int           `toml:"frames" yaml:"frames"`
	Timeout   time.Duration `toml:"timeout" yaml:"timeout"`
	Elements  []Element     `toml:"element" yaml:"elements"`
}

// Element is one document element placed in the scene.
type Element struct {
	ID       string   `toml:"id" yaml:"id"`
	Name     string   `toml:"name" yaml:"name"`
	X        float64  `toml:"x" yaml:"x"`
	Y        float64  `toml:"y" yaml:"y"`
	ScaleX   *float64 `toml:"scale_x" yaml:"scale_x"`
	ScaleY   *float64 `toml:"scale_y" yaml:"scale_y"`
	Rotation float64  `toml:"rotation" yaml:"rotation"` // degrees
	Alpha    *float64 `toml:"alpha" yaml:"alpha"`
	Hidden   bool     `toml:"hidden" yaml:"hidden"`
	Tweens   []Tween  `toml:"tween" yaml:"tweens"`
}

// Tween animates one property group of an element.
type Tween struct {
	Kind     string    `toml:"kind" yaml:"kind"` // position, scale, rotation, alpha
	To       []float64 `toml:"to" yaml:"to"`
	Duration float64   `toml:"duration" yaml:"duration"` // seconds
	Ease     string    `toml:"ease" yaml:"ease"`
}

// tweenArity is the number of target values each tween kind takes.
var tweenArity = map[string]int{
	"position": 2,
	"scale":    2,
	"rotation": 1,
	"alpha":    1,
}

// Load reads, defaults and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data as TOML (".toml") or YAML (".yaml", ".yml"), applies
// defaults and validates the result.
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
		if err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, fmt.Errorf("%w: unknown key %s", ErrInvalid, undec[0])
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills zero-valued settings.
func (c *Config) ApplyDefaults() {
	if c.TPS == 0 {
		c.TPS = DefaultTPS
	}
	if c.Frames == 0 {
		c.Frames = DefaultFrames
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	for i := range c.Elements {
		el := &c.Elements[i]
		if el.Name == "" {
			el.Name = el.ID
		}
		for j := range el.Tweens {
			if el.Tweens[j].Ease == "" {
				el.Tweens[j].Ease = "linear"
			}
		}
	}
}

// Validate reports every problem found, joined, each wrapping ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.TPS < 1 {
		bad("tps must be positive, got %d", c.TPS)
	}
	if c.Frames < 1 {
		bad("frames must be positive, got %d", c.Frames)
	}
	if c.Timeout < 0 {
		bad("timeout must not be negative")
	}
	if len(c.Elements) == 0 {
		bad("no elements")
	}
	seen := make(map[string]bool, len(c.Elements))
	for i, el := range c.Elements {
		if el.ID == "" {
			bad("element %d: missing id", i)
			continue
		}
		if seen[el.ID] {
			bad("element %q: duplicate id", el.ID)
		}
		seen[el.ID] = true
		if el.Alpha != nil && (*el.Alpha < 0 || *el.Alpha > 1) {
			bad("element %q: alpha %v outside [0,1]", el.ID, *el.Alpha)
		}
		for j, tw := range el.Tweens {
			arity, ok := tweenArity[tw.Kind]
			if !ok {
				bad("element %q tween %d: unknown kind %q", el.ID, j, tw.Kind)
				continue
			}
			if len(tw.To) != arity {
				bad("element %q tween %d: %s takes %d values, got %d", el.ID, j, tw.Kind, arity, len(tw.To))
			}
			if tw.Duration <= 0 {
				bad("element %q tween %d: duration must be positive", el.ID, j)
			}
			if _, ok := domlayer.EaseByName(strings.ToLower(tw.Ease)); !ok {
				bad("element %q tween %d: unknown ease %q", el.ID, j, tw.Ease)
			}
		}
	}
	return errors.Join(errs...)
}

// NeedsBrowser reports whether a live page must be opened.
func (c *Config) NeedsBrowser() bool {
	return c.URL != "" || c.RemoteURL != ""
}
