package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// settings is the persisted subset of Config. The book preset is left out:
// a saved file never captures the book being edited.
type settings struct {
	Window    WindowConfig    `yaml:"window"`
	Animation AnimationConfig `yaml:"animation"`
	Render    RenderConfig    `yaml:"render"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Audio     AudioConfig     `yaml:"audio"`
	Logging   LoggingConfig   `yaml:"logging"`
}

func (c *Config) settings() settings {
	return settings{
		Window:    c.Window,
		Animation: c.Animation,
		Render:    c.Render,
		Viewer:    c.Viewer,
		Audio:     c.Audio,
		Logging:   c.Logging,
	}
}

// Save writes the viewer settings to the user's config directory.
func (c *Config) Save() error {
	return c.SaveTo(filepath.Join(ConfigDir(), "config.yaml"))
}

// SaveTo writes the viewer settings to a specific path. Sections of an
// existing file that are not settings, the book preset among them, are
// kept as they are.
func (c *Config) SaveTo(path string) error {
	doc := map[string]yaml.Node{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	var sections map[string]yaml.Node
	data, err := yaml.Marshal(c.settings())
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return err
	}
	for k, v := range sections {
		doc[k] = v
	}

	// Create parent directory if needed
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
