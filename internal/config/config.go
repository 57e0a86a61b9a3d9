// Package config loads the grid description and engine settings from TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/rook-computer/panelkit/internal/assets"
)

// EnvConfigPath overrides the configuration file when no path is given.
const EnvConfigPath = "PANELKIT_CONFIG"

const (
	DefaultTag         = "[LCD]"
	DefaultTick        = 100 * time.Millisecond
	DefaultUpdateEvery = 60
	DefaultScrollStep  = 6
	DefaultTextureSize = 512

	maxTextureSize = 4096
)

// ErrInvalidSize reports a texture or surface size that cannot be rendered.
var ErrInvalidSize = errors.New("invalid size")

// blockNamespace seeds the name-derived IDs of blocks without an explicit id.
// The ID depends on the name only, so reordering blocks keeps it; the n-th
// repeat of a name gets "#n" appended before hashing. Renaming a block
// changes its ID.
var blockNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/rook-computer/panelkit/block"))

type Config struct {
	// Tag must appear in a block name for the block to be drawn.
	Tag string `toml:"tag"`
	// Construct limits discovery to blocks of one construct. Empty matches all.
	Construct string `toml:"construct"`
	// Tick is the draw interval.
	Tick Duration `toml:"tick"`
	// UpdateEvery is the number of ticks between discovery updates.
	UpdateEvery int    `toml:"update_every"`
	ScrollStep  int    `toml:"scroll_step"`
	Scroll      *bool  `toml:"scroll"`
	TexturesDir string `toml:"textures_dir"`

	Blocks []Block `toml:"block"`
}

type Block struct {
	ID        string    `toml:"id"`
	Name      string    `toml:"name"`
	Construct string    `toml:"construct"`
	Surfaces  []Surface `toml:"surface"`
}

type Surface struct {
	Texture    []int  `toml:"texture"`
	Size       []int  `toml:"size"`
	Content    string `toml:"content"`
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
}

// Duration decodes TOML strings such as "250ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ScrollEnabled reports whether auto-scrolling is on. It defaults to true.
func (c *Config) ScrollEnabled() bool {
	return c.Scroll == nil || *c.Scroll
}

// ResolvePath returns path, or the EnvConfigPath value when path is empty.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	return os.Getenv(EnvConfigPath)
}

// Load reads the file at path. An empty path loads the embedded demo grid.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(assets.DefaultConfig)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data, fills defaults and validates surface sizes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Tag == "" {
		c.Tag = DefaultTag
	}
	if c.Tick.Duration <= 0 {
		c.Tick.Duration = DefaultTick
	}
	if c.UpdateEvery <= 0 {
		c.UpdateEvery = DefaultUpdateEvery
	}
	if c.ScrollStep <= 0 {
		c.ScrollStep = DefaultScrollStep
	}

	repeats := make(map[string]int)
	for i := range c.Blocks {
		b := &c.Blocks[i]
		if b.ID == "" {
			key := b.Name
			if n := repeats[b.Name]; n > 0 {
				key += "#" + strconv.Itoa(n)
			}
			repeats[b.Name]++
			b.ID = uuid.NewSHA1(blockNamespace, []byte(key)).String()
		}
		if b.Construct == "" {
			b.Construct = c.Construct
		}
		for j := range b.Surfaces {
			s := &b.Surfaces[j]
			if len(s.Texture) == 0 {
				s.Texture = []int{DefaultTextureSize, DefaultTextureSize}
			}
			if len(s.Size) == 0 {
				s.Size = append([]int(nil), s.Texture...)
			}
		}
	}
}

func (c *Config) validate() error {
	seen := make(map[string]bool, len(c.Blocks))
	for _, b := range c.Blocks {
		if seen[b.ID] {
			return fmt.Errorf("block %q: duplicate id %q", b.Name, b.ID)
		}
		seen[b.ID] = true
		for j, s := range b.Surfaces {
			if err := checkSize(s.Texture); err != nil {
				return fmt.Errorf("block %q surface %d texture: %w", b.Name, j, err)
			}
			if err := checkSize(s.Size); err != nil {
				return fmt.Errorf("block %q surface %d size: %w", b.Name, j, err)
			}
			if s.Size[0] > s.Texture[0] || s.Size[1] > s.Texture[1] {
				return fmt.Errorf("block %q surface %d: size %v exceeds texture %v: %w", b.Name, j, s.Size, s.Texture, ErrInvalidSize)
			}
		}
	}
	return nil
}

func checkSize(v []int) error {
	if len(v) != 2 {
		return fmt.Errorf("want [width, height], got %v: %w", v, ErrInvalidSize)
	}
	for _, d := range v {
		if d <= 0 || d > maxTextureSize {
			return fmt.Errorf("%v out of range (0, %d]: %w", v, maxTextureSize, ErrInvalidSize)
		}
	}
	return nil
}
