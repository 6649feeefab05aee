package extractor

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeEngine struct {
	info     *RawInfo
	err      error
	calls    int
	lastURL  string
	lastOpts ResolveOptions
}

func (e *fakeEngine) Resolve(_ context.Context, url string, opts ResolveOptions) (*RawInfo, error) {
	e.calls++
	e.lastURL = url
	e.lastOpts = opts
	return e.info, e.err
}

type fakeCookies struct {
	path      string
	err       error
	calls     int
	lastForce bool
}

func (c *fakeCookies) Path(_ context.Context, force bool) (string, error) {
	c.calls++
	c.lastForce = force
	return c.path, c.err
}

func testInfo() *RawInfo {
	return &RawInfo{
		Title:     "test video",
		Duration:  12.5,
		Thumbnail: "https://cdn.example.com/thumb.jpg",
		Formats: []RawFormat{
			{FormatID: "v0", URL: "https://cdn.example.com/v.mp4", Ext: "mp4", VCodec: "h264", ACodec: "aac", Width: 1080, Height: 1920},
			{FormatID: "hls", URL: "https://cdn.example.com/p.m3u8", Ext: "mp4", VCodec: "h264", ACodec: "aac"},
		},
	}
}

func TestServiceExtract(t *testing.T) {
	engine := &fakeEngine{info: testInfo()}
	jar := &fakeCookies{path: "/tmp/cookies.txt"}
	svc := NewService(engine, jar, zap.NewNop())

	result, err := svc.Extract(context.Background(), "https://www.tiktok.com/@u/video/1", Options{})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if result.Title != "test video" || result.Duration != 12.5 {
		t.Errorf("result = %q/%v, want test video/12.5", result.Title, result.Duration)
	}
	if len(result.Formats) != 1 {
		t.Fatalf("formats = %d, want 1 (manifest dropped)", len(result.Formats))
	}
	if engine.lastOpts.CookieFile != "/tmp/cookies.txt" {
		t.Errorf("engine cookie file = %q, want /tmp/cookies.txt", engine.lastOpts.CookieFile)
	}
	if jar.lastForce {
		t.Error("cookie refresh forced without refresh_cookies")
	}
}

func TestServiceExtractInvalidURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"no scheme", "www.tiktok.com/@u/video/1"},
		{"ftp scheme", "ftp://example.com/file"},
		{"scheme only", "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{info: testInfo()}
			jar := &fakeCookies{path: "/tmp/cookies.txt"}
			svc := NewService(engine, jar, zap.NewNop())

			_, err := svc.Extract(context.Background(), tt.url, Options{})

			var invalidErr *InvalidRequestError
			if !errors.As(err, &invalidErr) {
				t.Fatalf("Extract(%q) error = %v, want InvalidRequestError", tt.url, err)
			}
			// Validation rejects before any external call
			if engine.calls != 0 || jar.calls != 0 {
				t.Errorf("external calls = engine:%d cookies:%d, want none", engine.calls, jar.calls)
			}
		})
	}
}

func TestServiceExtractRefreshPassthrough(t *testing.T) {
	engine := &fakeEngine{info: testInfo()}
	jar := &fakeCookies{path: "/tmp/cookies.txt"}
	svc := NewService(engine, jar, zap.NewNop())

	if _, err := svc.Extract(context.Background(), "https://www.tiktok.com/@u/video/1", Options{RefreshCookies: true}); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !jar.lastForce {
		t.Error("refresh_cookies did not force cookie regeneration")
	}
}

func TestServiceExtractCookieFailure(t *testing.T) {
	cookieErr := errors.New("browser launch failed")
	engine := &fakeEngine{info: testInfo()}
	jar := &fakeCookies{err: cookieErr}
	svc := NewService(engine, jar, zap.NewNop())

	_, err := svc.Extract(context.Background(), "https://www.tiktok.com/@u/video/1", Options{})
	if !errors.Is(err, cookieErr) {
		t.Fatalf("Extract() error = %v, want cookie failure", err)
	}
	if engine.calls != 0 {
		t.Error("engine invoked despite cookie failure")
	}
}

func TestServiceExtractEngineFailure(t *testing.T) {
	engineErr := &ExtractionError{URL: "https://www.tiktok.com/@u/video/1", Err: ErrVideoNotFound}
	engine := &fakeEngine{err: engineErr}
	jar := &fakeCookies{path: "/tmp/cookies.txt"}
	svc := NewService(engine, jar, zap.NewNop())

	_, err := svc.Extract(context.Background(), "https://www.tiktok.com/@u/video/1", Options{})

	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("Extract() error = %v, want ExtractionError", err)
	}
	if !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("error chain lost the sentinel: %v", err)
	}
}
