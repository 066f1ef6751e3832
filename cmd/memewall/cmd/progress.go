package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/memewall/internal/progress"
)

var (
	expected      int
	watchProgress bool
	interval      time.Duration
)

// watch is swapped out in tests.
var watch = progress.Watch

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Report how far the image download has got",
	Long: `Count the images already downloaded and check whether a downloader is
still running.

Examples:
  memewall progress
  memewall progress --watch --interval 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.Pool.Dir
		if watchProgress {
			if err := watch(cmd.Context(), dir, expected, interval); err != nil {
				// Interrupting the watch is a normal way to leave it.
				fmt.Fprintf(os.Stderr, "[memewall] progress watch: %v\n", err)
			}
			return nil
		}
		r, err := progress.Check(cmd.Context(), dir, expected)
		if err != nil {
			// A missing folder is a report, not a failure.
			fmt.Println(err)
			return nil
		}
		fmt.Println(progress.Render(r))
		return nil
	},
}

func init() {
	progressCmd.Flags().IntVar(&expected, "expected", 82, "number of images in the collection")
	progressCmd.Flags().BoolVarP(&watchProgress, "watch", "w", false, "keep refreshing until complete")
	progressCmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "refresh interval with --watch")
	rootCmd.AddCommand(progressCmd)
}
