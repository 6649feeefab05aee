package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokmeta/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create tokmeta config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			return err
		}

		path, _ := config.ConfigPath()
		fmt.Printf("Saved %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
