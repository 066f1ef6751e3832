package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/memewall"
)

var (
	configPath string
	imageDir   string
	debug      bool
	cfg        memewall.Config
)

var rootCmd = &cobra.Command{
	Use:   "memewall",
	Short: "NFT collection landing page with a churning meme background",
	Long: `memewall opens the collection landing page in a window: a centered hero
with link buttons over a background of meme images that drift in and out.

It also downloads the collection images and reports download progress.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = memewall.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if imageDir != "" {
			cfg.Pool.Dir = imageDir
		}
		if debug {
			cfg.Debug = true
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&imageDir, "images", "i", "", "image folder (overrides config and "+memewall.EnvImageDir+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging and on-screen stats")
}
