package cli

import (
	"tokmeta/internal/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "tokmeta",
	Short:   "TikTok metadata extraction service",
	Long: `tokmeta resolves TikTok video URLs into playable stream metadata.

It keeps a guest session-cookie file fresh via browser automation and
delegates the actual extraction to yt-dlp. Run it as an HTTP service with
'tokmeta serve' or one-shot from the command line with 'tokmeta extract'.`,
	Version: version.Version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}
