package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"
	"github.com/yohamta/donburi"

	"github.com/phanxgames/memewall"
	"github.com/phanxgames/memewall/ecs"
	"github.com/phanxgames/memewall/internal/sfx"
)

var (
	sound      bool
	pick       bool
	scriptPath string
	capture    []string
	captureDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the landing page window",
	Long: `Open the landing page window.

Examples:
  memewall run
  memewall run --images ./nft_images --sound
  memewall run --pick
  memewall run --script smoke.yaml
  memewall run --capture turnover,purged --capture-dir ./shots`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pick {
			dir, err := pickFolder(cfg.Pool.Dir)
			if err != nil {
				return err
			}
			if dir == "" {
				return nil
			}
			cfg.Pool.Dir = dir
		}

		opts := memewall.LandingOptions{
			Config: cfg,
			Images: os.DirFS(cfg.Pool.Dir),
			Assets: os.DirFS(cfg.Preload.Dir),
		}
		for _, name := range capture {
			t, err := memewall.ParseWallEventType(name)
			if err != nil {
				return err
			}
			opts.Capture = append(opts.Capture, t)
		}
		if sound || cfg.Sound {
			p, err := sfx.New(-1)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[memewall] sound disabled: %v\n", err)
			} else {
				defer p.Close()
				opts.Sound = p
			}
		}

		var world donburi.World
		if cfg.Debug {
			world = donburi.NewWorld()
			opts.Sink = ecs.NewDonburiSink(world)
			opts.Store = ecs.NewDonburiStore(world)
			ecs.InteractionEventType.Subscribe(world, func(_ donburi.World, e memewall.InteractionEvent) {
				fmt.Fprintf(os.Stderr, "[memewall] click %q at %.0f,%.0f\n", e.NodeName, e.GlobalX, e.GlobalY)
			})
		}

		landing, err := memewall.NewLanding(opts)
		if err != nil {
			return err
		}
		landing.Scene().Snapshots().Dir = captureDir
		if scriptPath != "" {
			data, err := os.ReadFile(scriptPath)
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			runner, err := memewall.LoadScript(data)
			if err != nil {
				return err
			}
			runner.OnResize = landing.Layout
			landing.Scene().SetScript(runner)
		}
		if world != nil {
			landing.OnFrame(func() {
				ecs.InteractionEventType.ProcessEvents(world)
				ecs.WallEventType.ProcessEvents(world)
			})
			defer func() {
				fmt.Fprintf(os.Stderr, "[memewall] %d elements mirrored at exit\n", ecs.CountElements(world))
			}()
		}
		return landing.Run(cmd.Context())
	},
}

// pickFolder asks for the image folder with a native dialog. An empty
// result means the user cancelled.
func pickFolder(start string) (string, error) {
	abs, _ := filepath.Abs(start)
	dir, err := zenity.SelectFile(
		zenity.Title("Choose the NFT image folder"),
		zenity.Directory(),
		zenity.Filename(abs),
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("folder picker: %w", err)
	}
	return dir, nil
}

func init() {
	runCmd.Flags().BoolVar(&sound, "sound", false, "play a click sound on link buttons")
	runCmd.Flags().BoolVar(&pick, "pick", false, "choose the image folder with a dialog")
	runCmd.Flags().StringVar(&scriptPath, "script", "", "replay a YAML script of clicks, waits, resizes and screenshots")
	runCmd.Flags().StringSliceVar(&capture, "capture", nil, "save a frame on these wall events (shown, fading, removed, image-failed, turnover, purged)")
	runCmd.Flags().StringVar(&captureDir, "capture-dir", "screenshots", "folder for captured frames")
	rootCmd.AddCommand(runCmd)
}
