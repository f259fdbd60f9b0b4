package main

import (
	"context"
	"log"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/hubastard/skelview/engine/assets"
	"github.com/hubastard/skelview/engine/config"
	"github.com/hubastard/skelview/engine/core"
	glbackend "github.com/hubastard/skelview/engine/gfx/gl"
	"github.com/hubastard/skelview/engine/platform"
	"github.com/hubastard/skelview/engine/profiler"
	"github.com/hubastard/skelview/engine/view"
	"github.com/hubastard/skelview/engine/viewer"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		configPath  string
		assetsDir   string
		profilePath string
	)
	cmd := &cobra.Command{
		Use:   "skelview",
		Short: "Play the animations of a glTF skeleton in a window",
		Long: `skelview opens a window showing the bones of a binary glTF model and
plays each of its animation clips in turn, looping forever.

Keys: 1-9 jump to a clip, space pauses, R resets the camera,
P prints rendering info, Esc quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, assetsDir)
			if err != nil {
				return err
			}
			return run(cfg, profilePath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML settings file")
	cmd.Flags().StringVar(&assetsDir, "assets", "", "Directory holding the model and IBL (overrides the config)")
	if profiler.Enabled {
		cmd.Flags().StringVar(&profilePath, "profile", "skelview.speedscope.json", "Where to save the frame profile on exit")
	}

	cmd.AddCommand(newInfoCmd())
	return cmd
}

func loadConfig(path, assetsDir string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if assetsDir != "" {
		cfg.Assets.Root = assetsDir
	}
	return cfg, nil
}

func run(cfg config.Config, profilePath string) error {
	assets.Root = cfg.Assets.Root
	if profilePath != "" {
		profiler.Init(0)
	}

	// The window needs its MSAA sample count before a GL context exists, so
	// the first pass at the options only knows about Vulkan.
	pre := view.NewOptions(view.Capabilities{Vulkan: platform.VulkanSupported()}, cfg.Quality)
	app := viewer.NewActivity(cfg, pre)

	var win *platform.GLFWWindow
	newWindow := func(c core.Config) (core.Window, error) {
		w, err := platform.NewGLFWWindow(c, nil)
		win = w
		return w, err
	}
	newRenderer := func(w core.Window, c core.Config) (core.Renderer, error) {
		opts := view.NewOptions(platform.DetectCapabilities(), cfg.Quality)
		app.Options = opts
		return glbackend.NewRendererGL(w, opts)
	}

	err := core.Run(app, cfg.Engine(pre), newWindow, newRenderer)
	if win != nil {
		win.Destroy()
	}
	if profilePath != "" {
		if perr := profiler.Save(profilePath); perr != nil {
			log.Printf("profile: %v", perr)
		} else {
			log.Printf("Frame profile written to %s", profilePath)
		}
	}
	return err
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}
