package extractor

import (
	"errors"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	y := &YtDlp{binaryPath: "yt-dlp"}

	tests := []struct {
		name string
		url  string
		opts ResolveOptions
		want []string
	}{
		{
			name: "without cookies",
			url:  "https://www.tiktok.com/@u/video/1",
			opts: ResolveOptions{},
			want: []string{
				"--dump-json", "--skip-download", "--no-warnings",
				"--user-agent", browserUserAgent,
				"https://www.tiktok.com/@u/video/1",
			},
		},
		{
			name: "with cookie file",
			url:  "https://www.tiktok.com/@u/video/1",
			opts: ResolveOptions{CookieFile: "/tmp/cookies.txt"},
			want: []string{
				"--dump-json", "--skip-download", "--no-warnings",
				"--user-agent", browserUserAgent,
				"--cookies", "/tmp/cookies.txt",
				"https://www.tiktok.com/@u/video/1",
			},
		},
		{
			name: "no-watermark adds no switch",
			url:  "https://www.tiktok.com/@u/video/1",
			opts: ResolveOptions{NoWatermark: true},
			want: []string{
				"--dump-json", "--skip-download", "--no-warnings",
				"--user-agent", browserUserAgent,
				"https://www.tiktok.com/@u/video/1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := y.buildArgs(tt.url, tt.opts)
			if len(got) != len(tt.want) {
				t.Fatalf("buildArgs() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("arg[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMapEngineError(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   error
	}{
		{"unsupported", "ERROR: Unsupported URL: https://example.com", ErrUnsupportedURL},
		{"not found", "ERROR: Video unavailable", ErrVideoNotFound},
		{"http 404", "ERROR: HTTP Error 404: Not Found", ErrVideoNotFound},
		{"private", "ERROR: Private video. Sign in if you've been granted access", ErrVideoPrivate},
		{"geo", "ERROR: The uploader has not made this video not available in your country", ErrGeoRestricted},
		{"missing binary", "exec: executable file not found in $PATH", ErrEngineNotFound},
		{"unknown", "something exploded", ErrEngineFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapEngineError(tt.output); !errors.Is(got, tt.want) {
				t.Errorf("mapEngineError(%q) = %v, want %v", tt.output, got, tt.want)
			}
		})
	}
}

func TestIsClientFault(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrVideoNotFound, true},
		{ErrVideoPrivate, true},
		{ErrUnsupportedURL, true},
		{ErrGeoRestricted, true},
		{ErrEngineFailed, true},
		{ErrEngineNotFound, false},
	}

	for _, tt := range tests {
		if got := isClientFault(tt.err); got != tt.want {
			t.Errorf("isClientFault(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
