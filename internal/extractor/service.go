package extractor

import (
	"context"
	"net/url"

	"go.uber.org/zap"
)

// Engine is the opaque metadata-extraction capability: given a URL it returns
// raw candidate format descriptors. The production implementation shells out
// to yt-dlp; tests substitute fixtures.
type Engine interface {
	Resolve(ctx context.Context, url string, opts ResolveOptions) (*RawInfo, error)
}

// ResolveOptions are passed through to the engine invocation
type ResolveOptions struct {
	CookieFile  string
	NoWatermark bool
}

// CookieProvider hands out the path to a usable session-cookie file,
// regenerating it first when needed.
type CookieProvider interface {
	Path(ctx context.Context, force bool) (string, error)
}

// Options are the per-request extraction options
type Options struct {
	NoWatermark    bool
	RefreshCookies bool
}

// Service is the extraction request handler: it validates the URL, obtains a
// cookie file, invokes the engine, and filters the raw formats into the
// response shape.
type Service struct {
	engine  Engine
	cookies CookieProvider
	log     *zap.Logger
}

// NewService wires an extraction service
func NewService(engine Engine, cookies CookieProvider, log *zap.Logger) *Service {
	return &Service{
		engine:  engine,
		cookies: cookies,
		log:     log,
	}
}

// Extract resolves a video URL into filtered metadata. Validation failures
// return before the cookie provider or engine are touched.
func (s *Service) Extract(ctx context.Context, rawURL string, opts Options) (*Result, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	cookieFile, err := s.cookies.Path(ctx, opts.RefreshCookies)
	if err != nil {
		return nil, err
	}

	info, err := s.engine.Resolve(ctx, rawURL, ResolveOptions{
		CookieFile:  cookieFile,
		NoWatermark: opts.NoWatermark,
	})
	if err != nil {
		return nil, err
	}

	formats := FilterFormats(info.Formats, FilterOptions{NoWatermark: opts.NoWatermark})
	s.log.Info("extracted metadata",
		zap.String("url", rawURL),
		zap.String("title", info.Title),
		zap.Int("formats", len(formats)))

	return &Result{
		Title:     info.Title,
		Duration:  info.Duration,
		Thumbnail: info.Thumbnail,
		Formats:   formats,
	}, nil
}

// validateURL rejects empty strings and anything that does not parse as an
// absolute http(s) URL
func validateURL(rawURL string) error {
	if rawURL == "" {
		return &InvalidRequestError{Reason: "video_url is required"}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return &InvalidRequestError{Reason: "video_url is not a valid URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &InvalidRequestError{Reason: "video_url must use http or https"}
	}
	if u.Host == "" {
		return &InvalidRequestError{Reason: "video_url is missing a host"}
	}

	return nil
}
