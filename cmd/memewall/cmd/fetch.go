package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phanxgames/memewall/internal/fetch"
)

var (
	collectionFile string
	fetchDir       string
	fetchAttempts  int
	mintNames      bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the collection images",
	Long: `Download every image listed in a collection JSON file.

Files are numbered the way the wall loads them (image00001.png, ...), using
the pool prefix and extension from the config. Files already present are
kept, so an interrupted run can be resumed.

Examples:
  memewall fetch
  memewall fetch --collection bonk.json --dir ./nft_images
  memewall fetch --mint-names --dir ./by_mint`,
	RunE: func(cmd *cobra.Command, args []string) error {
		col, err := fetch.LoadCollection(collectionFile)
		if err != nil {
			return err
		}
		dir := fetchDir
		if dir == "" {
			dir = cfg.Pool.Dir
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		name := fetch.PoolName(cfg.Pool.Prefix, cfg.Pool.Ext)
		if mintNames {
			name = fetch.MintName
		}
		if n := len(col.Result.Items); n > cfg.Pool.Count {
			fmt.Printf("Note: %d items but the pool uses %d; raise pool.count to show them all\n", n, cfg.Pool.Count)
		}

		fmt.Printf("Downloading %d images to %s\n", len(col.Result.Items), dir)
		sum, err := fetch.Download(ctx, col.Result.Items, fetch.Options{
			Dir:      dir,
			Attempts: fetchAttempts,
			Name:     name,
			Log:      os.Stdout,
		})
		fmt.Printf("\nDone: %d successful, %d failed, %d skipped of %d\n",
			sum.Successful, sum.Failed, sum.Skipped, sum.Total)
		if errors.Is(err, context.Canceled) {
			fmt.Println("Interrupted; run again to resume.")
			return nil
		}
		return err
	},
}

func init() {
	fetchCmd.Flags().StringVar(&collectionFile, "collection", "collection.json", "collection JSON file")
	fetchCmd.Flags().StringVarP(&fetchDir, "dir", "d", "", "output folder (default: the image folder)")
	fetchCmd.Flags().IntVar(&fetchAttempts, "attempts", 3, "attempts per image")
	fetchCmd.Flags().BoolVar(&mintNames, "mint-names", false, "name files <mint><ext> instead of the pool's numbering")
	rootCmd.AddCommand(fetchCmd)
}
