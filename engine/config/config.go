// Package config reads the viewer's YAML settings file.
package config

import (
	"fmt"
	"os"

	"github.com/hubastard/skelview/engine/core"
	"github.com/hubastard/skelview/engine/scene"
	"github.com/hubastard/skelview/engine/view"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	VSync      *bool  `yaml:"vsync"`
	ClearColor string `yaml:"clear_color"`
}

type AssetsConfig struct {
	Root  string `yaml:"root"`
	Model string `yaml:"model"`
	IBL   string `yaml:"ibl"`
}

type Config struct {
	Window       WindowConfig `yaml:"window"`
	Assets       AssetsConfig `yaml:"assets"`
	IBLIntensity float32      `yaml:"ibl_intensity"`
	Quality      view.Tier    `yaml:"quality"`
	HotReload    bool         `yaml:"hot_reload"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	c := Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Window.Title == "" {
		c.Window.Title = "Skeleton Viewer"
	}
	if c.Window.Width <= 0 {
		c.Window.Width = 1280
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 720
	}
	if c.Window.VSync == nil {
		on := true
		c.Window.VSync = &on
	}
	if c.Window.ClearColor == "" {
		c.Window.ClearColor = "#14191f"
	}
	if c.Assets.Root == "" {
		c.Assets.Root = "assets"
	}
	if c.Assets.Model == "" {
		c.Assets.Model = "skeleton.glb"
	}
	if c.Assets.IBL == "" {
		c.Assets.IBL = "default_env_ibl.ktx"
	}
	if c.IBLIntensity <= 0 {
		c.IBLIntensity = scene.DefaultIBLIntensity
	}
	if c.Quality == "" {
		c.Quality = view.TierAuto
	}
}

func (c *Config) validate() error {
	switch c.Quality {
	case view.TierAuto, view.TierHigh, view.TierLow:
	default:
		return fmt.Errorf("config: quality %q is not one of auto, high, low", c.Quality)
	}
	if _, err := colorful.Hex(c.Window.ClearColor); err != nil {
		return fmt.Errorf("config: clear_color: %w", err)
	}
	return nil
}

// Parse decodes YAML settings and fills in defaults.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads settings from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return Parse(data)
}

// Engine converts the window settings into the engine run configuration.
func (c Config) Engine(opts view.Options) core.Config {
	clear := [4]float32{0, 0, 0, 1}
	if col, err := colorful.Hex(c.Window.ClearColor); err == nil {
		r, g, b := col.LinearRgb()
		clear = [4]float32{float32(r), float32(g), float32(b), 1}
	}
	return core.Config{
		Title:      c.Window.Title,
		Width:      c.Window.Width,
		Height:     c.Window.Height,
		VSync:      *c.Window.VSync,
		Samples:    opts.MSAASamples,
		ClearColor: clear,
	}
}
