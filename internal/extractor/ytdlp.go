package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"tokmeta/internal/config"
)

// browserUserAgent mirrors what a desktop Chrome sends; TikTok serves
// different format lists to clients it does not recognize as browsers.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// YtDlp resolves video metadata by running the yt-dlp binary with
// --dump-json. It implements Engine.
type YtDlp struct {
	binaryPath string
	timeout    time.Duration
	log        *zap.Logger
}

// NewYtDlp creates an engine backed by the yt-dlp executable
func NewYtDlp(cfg config.EngineConfig, log *zap.Logger) *YtDlp {
	return &YtDlp{
		binaryPath: cfg.BinaryPath,
		timeout:    cfg.GetTimeout(),
		log:        log,
	}
}

// buildArgs constructs the yt-dlp command line. NoWatermark has no dedicated
// yt-dlp switch; the preference is enforced later during format filtering.
func (y *YtDlp) buildArgs(url string, opts ResolveOptions) []string {
	args := []string{
		"--dump-json",
		"--skip-download",
		"--no-warnings",
		"--user-agent", browserUserAgent,
	}

	if opts.CookieFile != "" {
		args = append(args, "--cookies", opts.CookieFile)
	}

	args = append(args, url)
	return args
}

// Resolve runs yt-dlp against the URL and decodes its JSON output
func (y *YtDlp) Resolve(ctx context.Context, url string, opts ResolveOptions) (*RawInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	args := y.buildArgs(url, opts)
	y.log.Debug("invoking yt-dlp",
		zap.String("url", url),
		zap.Bool("no_watermark", opts.NoWatermark),
		zap.String("cookie_file", opts.CookieFile))

	cmd := exec.CommandContext(ctx, y.binaryPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, &TimeoutError{Op: "metadata extraction", Err: ctx.Err()}
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEngineNotFound, y.binaryPath)
		}

		mapped := mapEngineError(string(output))
		y.log.Warn("yt-dlp failed",
			zap.String("url", url),
			zap.Error(mapped))
		if isClientFault(mapped) {
			return nil, &ExtractionError{URL: url, Err: mapped}
		}
		return nil, fmt.Errorf("%w: %v", mapped, err)
	}

	var info RawInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	return &info, nil
}
