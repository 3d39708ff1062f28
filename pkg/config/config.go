// Package config loads the bookroom settings from TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/leterax/bookroom/pkg/book"
)

// ErrUnknownProfile is returned when book.profile names no known profile.
var ErrUnknownProfile = errors.New("config: unknown profile")

// Config is the full program configuration.
type Config struct {
	Window     Window             `toml:"window"`
	Camera     Camera             `toml:"camera"`
	Book       Book               `toml:"book"`
	Profiles   map[string]Profile `toml:"profiles,omitempty"`
	Textures   Textures           `toml:"textures"`
	Remote     Remote             `toml:"remote"`
	Log        Log                `toml:"log"`
	Screenshot Screenshot         `toml:"screenshot"`
}

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

type Camera struct {
	Position  [3]float32 `toml:"position"`
	Yaw       float32    `toml:"yaw"`
	Pitch     float32    `toml:"pitch"`
	FOV       float32    `toml:"fov"`
	MoveSpeed float32    `toml:"move_speed"`
}

type Book struct {
	Profile    string     `toml:"profile"`
	Segments   int        `toml:"segments"`
	Width      float32    `toml:"width"`
	Height     float32    `toml:"height"`
	Depth      float32    `toml:"depth"`
	Position   [3]float32 `toml:"position"`
	Scale      float32    `toml:"scale"`
	TextureDir string     `toml:"texture_dir"`
	Fallback   string     `toml:"fallback"`
	Pages      []Page     `toml:"pages"`
}

type Page struct {
	Front string `toml:"front"`
	Back  string `toml:"back"`
}

// Profile is a turn profile as written in the file. Zero fields inherit from
// Base, which defaults to the baseline profile.
type Profile struct {
	Base         string  `toml:"base,omitempty"`
	Easing       float32 `toml:"easing,omitempty"`
	FoldEasing   float32 `toml:"fold_easing,omitempty"`
	InsideCurve  float32 `toml:"inside_curve,omitempty"`
	OutsideCurve float32 `toml:"outside_curve,omitempty"`
	TurningCurve float32 `toml:"turning_curve,omitempty"`
	FanDegrees   float32 `toml:"fan_degrees,omitempty"`
	TurnWindowMS int     `toml:"turn_window_ms,omitempty"`
	Tabs         *bool   `toml:"tabs,omitempty"`
}

type Textures struct {
	Workers int `toml:"workers"`
	MaxSize int `toml:"max_size"`
}

type Remote struct {
	// Addr of the presenter to follow. Empty disables remote control.
	Addr string `toml:"addr"`
}

type Log struct {
	Level string `toml:"level"`
}

type Screenshot struct {
	Dir string `toml:"dir"`
}

// Default returns the configuration of the stock scene.
func Default() *Config {
	dims := book.DefaultDimensions()
	pages := book.DefaultPages()
	cfg := &Config{
		Window: Window{Width: 1280, Height: 720, Title: "bookroom", VSync: true},
		Camera: Camera{
			Position:  [3]float32{0.517, 2.7, 1},
			Yaw:       -90,
			Pitch:     -60,
			FOV:       75,
			MoveSpeed: 2,
		},
		Book: Book{
			Profile:    "baseline",
			Segments:   dims.Segments,
			Width:      dims.Width,
			Height:     dims.Height,
			Depth:      dims.Depth,
			Position:   [3]float32{0.5, 2, 0.4},
			Scale:      0.5,
			TextureDir: "textures",
			Fallback:   "#F5F5DC",
		},
		Textures:   Textures{Workers: 4, MaxSize: 2048},
		Log:        Log{Level: "info"},
		Screenshot: Screenshot{Dir: "."},
	}
	for _, p := range pages {
		cfg.Book.Pages = append(cfg.Book.Pages, Page{Front: p.Front, Back: p.Back})
	}
	return cfg
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	// A page list in the file replaces the default book instead of
	// extending it.
	var pages struct {
		Book struct {
			Pages []Page `toml:"pages"`
		} `toml:"book"`
	}
	if err := toml.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if pages.Book.Pages != nil {
		cfg.Book.Pages = pages.Book.Pages
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandPaths resolves a leading ~ in the configured directories.
func (c *Config) expandPaths() error {
	for _, dir := range []*string{&c.Book.TextureDir, &c.Screenshot.Dir} {
		expanded, err := homedir.Expand(*dir)
		if err != nil {
			return fmt.Errorf("config: path %q: %w", *dir, err)
		}
		*dir = expanded
	}
	return nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(c)
}

// Validate checks the configuration for values the scene cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if len(c.Book.Pages) == 0 {
		return fmt.Errorf("config: %w", book.ErrNoPages)
	}
	if c.Book.Segments < 1 {
		return fmt.Errorf("config: %d segments: %w", c.Book.Segments, book.ErrDegenerateChain)
	}
	if c.Book.Width <= 0 || c.Book.Height <= 0 || c.Book.Depth <= 0 {
		return fmt.Errorf("config: page size must be positive")
	}
	if c.Book.Scale <= 0 {
		return fmt.Errorf("config: book scale must be positive")
	}
	if _, err := ParseColor(c.Book.Fallback); err != nil {
		return err
	}
	if c.Textures.Workers < 1 {
		return fmt.Errorf("config: textures.workers must be at least 1")
	}
	if _, err := c.ActiveProfile(); err != nil {
		return err
	}
	return nil
}

// ResolveProfiles returns the built-in profiles merged with the ones from the
// file. File profiles derive from built-ins only.
func (c *Config) ResolveProfiles() (map[string]book.Profile, error) {
	builtins := book.BuiltinProfiles()
	out := book.BuiltinProfiles()
	for name, p := range c.Profiles {
		resolved, err := p.resolve(name, builtins)
		if err != nil {
			return nil, err
		}
		out[name] = resolved
	}
	return out, nil
}

// ActiveProfile returns the profile named by book.profile.
func (c *Config) ActiveProfile() (book.Profile, error) {
	profiles, err := c.ResolveProfiles()
	if err != nil {
		return book.Profile{}, err
	}
	p, ok := profiles[c.Book.Profile]
	if !ok {
		return book.Profile{}, fmt.Errorf("%w %q (have %s)", ErrUnknownProfile,
			c.Book.Profile, strings.Join(book.ProfileNames(profiles), ", "))
	}
	return p, nil
}

func (p Profile) resolve(name string, builtins map[string]book.Profile) (book.Profile, error) {
	baseName := p.Base
	if baseName == "" {
		baseName = "baseline"
	}
	base, ok := builtins[baseName]
	if !ok {
		return book.Profile{}, fmt.Errorf("%w %q as base of %q", ErrUnknownProfile, baseName, name)
	}

	base.Name = name
	setIf(&base.Easing, p.Easing)
	setIf(&base.FoldEasing, p.FoldEasing)
	setIf(&base.InsideCurve, p.InsideCurve)
	setIf(&base.OutsideCurve, p.OutsideCurve)
	setIf(&base.TurningCurve, p.TurningCurve)
	setIf(&base.FanDegrees, p.FanDegrees)
	if p.TurnWindowMS != 0 {
		base.TurnWindow = time.Duration(p.TurnWindowMS) * time.Millisecond
	}
	if p.Tabs != nil {
		base.Tabs = *p.Tabs
	}
	if err := base.Validate(); err != nil {
		return book.Profile{}, fmt.Errorf("config: %w", err)
	}
	return base, nil
}

func setIf(dst *float32, v float32) {
	if v != 0 {
		*dst = v
	}
}

// BookOptions converts the [book] section into book options.
func (c *Config) BookOptions() (book.Options, error) {
	prof, err := c.ActiveProfile()
	if err != nil {
		return book.Options{}, err
	}
	opts := book.Options{
		Dimensions: book.Dimensions{
			Width:    c.Book.Width,
			Height:   c.Book.Height,
			Depth:    c.Book.Depth,
			Segments: c.Book.Segments,
		},
		Profile:  prof,
		Position: mgl32.Vec3(c.Book.Position),
		Scale:    c.Book.Scale,
	}
	for _, p := range c.Book.Pages {
		opts.Pages = append(opts.Pages, book.PageSpec{Front: p.Front, Back: p.Back})
	}
	return opts, nil
}

// FallbackColor returns the parsed fallback color.
func (c *Config) FallbackColor() mgl32.Vec3 {
	col, err := ParseColor(c.Book.Fallback)
	if err != nil {
		return book.Beige
	}
	return col
}

// ParseColor parses a #RRGGBB color.
func ParseColor(s string) (mgl32.Vec3, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return mgl32.Vec3{}, fmt.Errorf("config: color %q: want #RRGGBB", s)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("config: color %q: %w", s, err)
	}
	return mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}, nil
}
