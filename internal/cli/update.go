package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokmeta/internal/updater"
)

var updateCheck bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update tokmeta to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if updateCheck {
			latest, available, err := updater.CheckUpdate()
			if err != nil {
				return err
			}
			if !available {
				fmt.Println("Already up to date")
				return nil
			}
			fmt.Printf("New version available: %s\n", latest.Version())
			return nil
		}
		return updater.Update()
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheck, "check", false, "check for updates without installing")

	rootCmd.AddCommand(updateCmd)
}
