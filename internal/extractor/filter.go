package extractor

import (
	"fmt"
	"strings"
)

// mp4Family are container extensions treated as directly playable video
var mp4Family = map[string]bool{
	"mp4": true,
	"m4v": true,
	"mov": true,
}

// FilterOptions controls format filtering
type FilterOptions struct {
	// NoWatermark keeps the engine's distinct no-watermark video variants
	// even when their container would otherwise exclude them
	NoWatermark bool
}

// FilterFormats reduces yt-dlp's raw format list to the playable variants the
// API exposes: MP4-family video streams and audio-only streams. Manifest
// entries (m3u8) and formats with neither audio nor video are dropped. The
// engine's ordering is preserved and the operation is pure, so filtering the
// same input twice yields the same output.
func FilterFormats(raw []RawFormat, opts FilterOptions) []Format {
	formats := make([]Format, 0, len(raw))
	for i := range raw {
		f := &raw[i]
		if !keepFormat(f, opts) {
			continue
		}
		formats = append(formats, normalizeFormat(f))
	}
	return formats
}

func keepFormat(f *RawFormat, opts FilterOptions) bool {
	if f.URL == "" || isManifestURL(f.URL) {
		return false
	}
	if f.HasVideo() && mp4Family[strings.ToLower(f.Ext)] {
		return true
	}
	if f.HasAudio() && !f.HasVideo() {
		return true
	}
	// A no-watermark variant may ship in a container outside the MP4 family;
	// when the caller asked for it, it must survive the container filter.
	if opts.NoWatermark && f.HasVideo() && !f.Watermarked() {
		return true
	}
	return false
}

// isManifestURL reports whether the URL points at an HLS playlist rather
// than a media file
func isManifestURL(rawURL string) bool {
	trimmed := rawURL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.HasSuffix(strings.ToLower(trimmed), ".m3u8")
}

func normalizeFormat(f *RawFormat) Format {
	size := f.Filesize
	if size == nil {
		size = f.FilesizeApprox
	}

	return Format{
		FormatID:   f.FormatID,
		Resolution: resolutionLabel(f),
		URL:        f.URL,
		HasAudio:   f.HasAudio(),
		HasVideo:   f.HasVideo(),
		Bitrate:    f.ABR,
		AudioCodec: f.ACodec,
		Ext:        f.Ext,
		FileSize:   size,
		Cookies:    ParseCookieHeader(f.Cookies),
	}
}

// resolutionLabel renders "WIDTHxHEIGHT" for video formats and the literal
// "audio only" for formats without a video track
func resolutionLabel(f *RawFormat) string {
	if !f.HasVideo() {
		return "audio only"
	}
	if f.Width > 0 && f.Height > 0 {
		return fmt.Sprintf("%dx%d", f.Width, f.Height)
	}
	if f.Resolution != "" && f.Resolution != "audio only" {
		return f.Resolution
	}
	return "unknown"
}
