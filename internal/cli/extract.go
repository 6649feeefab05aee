package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tokmeta/internal/config"
	"tokmeta/internal/extractor"
)

var (
	extractNoWatermark    bool
	extractRefreshCookies bool
	extractJSON           bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract video metadata for a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(args[0])
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractNoWatermark, "no-watermark", false, "prefer no-watermark variants")
	extractCmd.Flags().BoolVar(&extractRefreshCookies, "refresh-cookies", false, "force cookie regeneration before extracting")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print raw JSON instead of a table")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(url string) error {
	cfg := config.LoadOrDefault()
	svc := newService(cfg, zap.NewNop())

	opts := extractor.Options{
		NoWatermark:    extractNoWatermark,
		RefreshCookies: extractRefreshCookies,
	}

	// JSON mode stays quiet: no spinner frames on stdout
	if extractJSON {
		result, err := svc.Extract(context.Background(), url, opts)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	result, err := runExtractWithSpinner(svc, url, opts)
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func printResult(result *extractor.Result) {
	fmt.Printf("  Title: %s\n", result.Title)
	fmt.Printf("  Duration: %.0fs\n", result.Duration)
	fmt.Printf("  Formats (%d):\n", len(result.Formats))
	for i, f := range result.Formats {
		tracks := ""
		if f.HasVideo {
			tracks += "v"
		}
		if f.HasAudio {
			tracks += "a"
		}
		size := "unknown size"
		if f.FileSize != nil {
			size = formatSize(*f.FileSize)
		}
		fmt.Printf("    [%d] %s %s (%s, %s)\n", i, f.FormatID, f.Resolution, f.Ext+"/"+tracks, size)
	}
}

func formatSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
