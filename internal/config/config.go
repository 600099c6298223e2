// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"image/color"

	"github.com/Faultbox/bookmock/internal/book"
	"github.com/Faultbox/bookmock/internal/engine/lighting"
)

// Config holds all viewer settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Book      BookConfig      `yaml:"book"`
	Animation AnimationConfig `yaml:"animation"`
	Render    RenderConfig    `yaml:"render"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Audio     AudioConfig     `yaml:"audio"`
	Logging   LoggingConfig   `yaml:"logging"`

	// path is the file the config was read from, empty for defaults.
	path string
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Samples    int  `yaml:"samples"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// BookConfig is the book the viewer starts with. It is a preset only;
// edits made in the viewer are never written back.
type BookConfig struct {
	WidthMm    float64      `yaml:"width_mm"`
	HeightMm   float64      `yaml:"height_mm"`
	SpineMm    float64      `yaml:"spine_mm"`
	OpenRatio  float64      `yaml:"open_ratio"`
	ShowPages  bool         `yaml:"show_pages"`
	Binding    book.Binding `yaml:"binding"`
	CoverColor string       `yaml:"cover_color"`
	CoverImage string       `yaml:"cover_image"`
}

// AnimationConfig holds hinge animation settings.
type AnimationConfig struct {
	HingeSpeed float64 `yaml:"hinge_speed"` // Blend rate per second
}

// RenderConfig holds settings shared by the GL and software renderers.
type RenderConfig struct {
	SnapshotWidth  int     `yaml:"snapshot_width"`
	SnapshotHeight int     `yaml:"snapshot_height"`
	Supersample    int     `yaml:"supersample"`
	Background     string  `yaml:"background"`
	SunLongitude   float64 `yaml:"sun_longitude"` // Degrees around Y, 0 = +Z
	SunLatitude    float64 `yaml:"sun_latitude"`  // Degrees above the horizon
	MaxTextureSize int     `yaml:"max_texture_size"`
	ShadowMapSize  int     `yaml:"shadow_map_size"` // 0 disables shadows in the viewer
	ShowBounds     bool    `yaml:"show_bounds"`
}

// ViewerConfig holds interactive viewer settings.
type ViewerConfig struct {
	ScreenshotDir string `yaml:"screenshot_dir"`
	WatchFiles    bool   `yaml:"watch_files"`
}

// AudioConfig holds the cover landing sounds. Empty paths use the
// built-in sounds.
type AudioConfig struct {
	Enabled bool `yaml:"enabled"`
	// Muted starts the viewer silent; M toggles it while running.
	Muted      bool    `yaml:"muted"`
	Volume     float64 `yaml:"volume"` // 0.0 to 1.0
	OpenSound  string  `yaml:"open_sound"`
	CloseSound string  `yaml:"close_sound"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	spec := book.DefaultSpec()
	sun := lighting.DefaultSun()
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Samples:    4,
			FPSLimit:   0,
		},
		Book: BookConfig{
			WidthMm:    spec.WidthMm,
			HeightMm:   spec.HeightMm,
			SpineMm:    spec.SpineMm,
			OpenRatio:  spec.OpenRatio,
			ShowPages:  spec.ShowPages,
			Binding:    spec.Binding,
			CoverColor: book.HexColor(spec.CoverColor),
		},
		Animation: AnimationConfig{
			HingeSpeed: book.DefaultHingeSpeed,
		},
		Render: RenderConfig{
			SnapshotWidth:  1600,
			SnapshotHeight: 1200,
			Supersample:    2,
			Background:     "#1a1a26",
			SunLongitude:   sun.Azimuth,
			SunLatitude:    sun.Elevation,
			MaxTextureSize: 4096,
			ShadowMapSize:  2048,
		},
		Viewer: ViewerConfig{
			ScreenshotDir: "screenshots",
			WatchFiles:    true,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.6,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// Validate reports settings no component can work with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Render.SnapshotWidth <= 0 || c.Render.SnapshotHeight <= 0 {
		return fmt.Errorf("snapshot size %dx%d must be positive", c.Render.SnapshotWidth, c.Render.SnapshotHeight)
	}
	if c.Animation.HingeSpeed <= 0 {
		return fmt.Errorf("hinge_speed %v must be positive", c.Animation.HingeSpeed)
	}
	if c.Render.ShadowMapSize < 0 {
		return fmt.Errorf("shadow_map_size %d must not be negative", c.Render.ShadowMapSize)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume %v must be within [0, 1]", c.Audio.Volume)
	}
	if _, err := c.Book.Spec(); err != nil {
		return err
	}
	if _, err := c.Render.BackgroundColor(); err != nil {
		return err
	}
	return nil
}

// Spec converts the preset into a clamped book spec without a cover image.
func (b BookConfig) Spec() (book.Spec, error) {
	col, err := book.ParseColor(b.CoverColor)
	if err != nil {
		return book.Spec{}, fmt.Errorf("book.cover_color: %w", err)
	}
	return book.Spec{
		WidthMm:    b.WidthMm,
		HeightMm:   b.HeightMm,
		SpineMm:    b.SpineMm,
		OpenRatio:  b.OpenRatio,
		ShowPages:  b.ShowPages,
		Binding:    b.Binding,
		CoverColor: col,
	}.Clamp(), nil
}

// BackgroundColor parses the clear colour.
func (r RenderConfig) BackgroundColor() (color.RGBA, error) {
	c, err := book.ParseColor(r.Background)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("render.background: %w", err)
	}
	return c, nil
}

// Sun returns the light both renderers use.
func (r RenderConfig) Sun() lighting.Sun {
	sun := lighting.DefaultSun()
	sun.Azimuth = r.SunLongitude
	sun.Elevation = r.SunLatitude
	return sun
}
