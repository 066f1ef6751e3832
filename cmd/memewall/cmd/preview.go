package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/phanxgames/memewall"
	"github.com/phanxgames/memewall/internal/termview"
)

var fps int

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Watch the background churn in the terminal",
	Long: `Run the background wall in the terminal without a window. Each image is
a block of cells; fading images are shaded. Space clicks, q quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		defer screen.Fini()

		r := termview.New(screen)
		pool := memewall.NewImagePool(cfg.Pool.Prefix, cfg.Pool.Ext, cfg.Pool.Count)
		w := memewall.NewWall(cfg.Wall, termview.Viewport(screen), pool, r, memewall.WallOptions{
			// tcell owns the terminal.
			Log: io.Discard,
		})
		w.SetDebugMode(cfg.Debug)
		if fps <= 0 {
			fps = 20
		}
		return termview.Run(screen, w, r, time.Second/time.Duration(fps))
	},
}

func init() {
	previewCmd.Flags().IntVar(&fps, "fps", 20, "frames per second")
	rootCmd.AddCommand(previewCmd)
}
