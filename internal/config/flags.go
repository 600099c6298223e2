package config

import (
	"flag"
	"fmt"

	"github.com/Faultbox/bookmock/internal/book"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagCover      = flag.String("cover", "", "Cover image laid out front|spine|back")
	flagBinding    = flag.String("binding", "", "Binding type: swiss or classic")
	flagOpen       = flag.Float64("open", -1, "Initial open ratio, 0 to 1")
	flagMute       = flag.Bool("mute", false, "Start with sounds muted")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Render.ShowBounds = true
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagCover != "" {
		cfg.Book.CoverImage = *flagCover
	}
	if *flagBinding != "" {
		b, err := book.ParseBinding(*flagBinding)
		if err != nil {
			return fmt.Errorf("-binding: %w", err)
		}
		cfg.Book.Binding = b
	}
	if *flagOpen >= 0 {
		cfg.Book.OpenRatio = *flagOpen
	}
	if *flagMute {
		cfg.Audio.Muted = true
	}
	return nil
}
