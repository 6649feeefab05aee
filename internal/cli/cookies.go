package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tokmeta/internal/config"
	"tokmeta/internal/cookies"
)

var cookiesCmd = &cobra.Command{
	Use:   "cookies",
	Short: "Manage the session-cookie jar",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var cookiesRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force cookie jar regeneration",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newCookieStore()
		path, err := store.Path(context.Background(), true)
		if err != nil {
			return err
		}
		fmt.Printf("Cookie jar written to %s\n", path)
		return nil
	},
}

var cookiesStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cookie jar age and location",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newCookieStore()
		fmt.Printf("File: %s\n", store.File())

		age, err := store.Age()
		if os.IsNotExist(err) {
			fmt.Println("Status: missing")
			return nil
		}
		if err != nil {
			return err
		}

		cfg := config.LoadOrDefault()
		fmt.Printf("Age: %s\n", age.Round(time.Second))
		if age < cfg.Cookies.GetMaxAge() {
			fmt.Println("Status: fresh")
		} else {
			fmt.Println("Status: stale")
		}
		return nil
	},
}

func init() {
	cookiesCmd.AddCommand(cookiesRefreshCmd)
	cookiesCmd.AddCommand(cookiesStatusCmd)
	rootCmd.AddCommand(cookiesCmd)
}

func newCookieStore() *cookies.Store {
	cfg := config.LoadOrDefault()
	source := cookies.NewBrowserSource(cfg.Cookies.GuestURL, cfg.Cookies.GetBrowserTimeout(), zap.NewNop())
	return cookies.NewStore(cfg.Cookies.File, cfg.Cookies.GetMaxAge(), source, zap.NewNop())
}
