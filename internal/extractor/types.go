package extractor

import "strings"

// RawInfo is the top-level metadata yt-dlp emits for a single video.
type RawInfo struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Duration     float64     `json:"duration"`
	Thumbnail    string      `json:"thumbnail"`
	ExtractorKey string      `json:"extractor_key"`
	Formats      []RawFormat `json:"formats"`
}

// RawFormat is one candidate stream descriptor from yt-dlp. Numeric fields
// that yt-dlp reports as JSON null stay nil so "unknown" is distinguishable
// from zero.
type RawFormat struct {
	FormatID       string   `json:"format_id"`
	FormatNote     string   `json:"format_note"`
	URL            string   `json:"url"`
	Ext            string   `json:"ext"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	Resolution     string   `json:"resolution"`
	VCodec         string   `json:"vcodec"`
	ACodec         string   `json:"acodec"`
	ABR            *float64 `json:"abr"`
	Filesize       *int64   `json:"filesize"`
	FilesizeApprox *int64   `json:"filesize_approx"`
	Cookies        string   `json:"cookies"`
}

// HasVideo reports whether the format carries a video track
func (f *RawFormat) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != "none"
}

// HasAudio reports whether the format carries an audio track
func (f *RawFormat) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

// Watermarked reports whether yt-dlp flagged the format as a watermarked copy
func (f *RawFormat) Watermarked() bool {
	return strings.Contains(strings.ToLower(f.FormatNote), "watermarked")
}

// Format is one filtered, normalized stream variant returned to API callers.
type Format struct {
	FormatID   string         `json:"format_id"`
	Resolution string         `json:"resolution"`
	URL        string         `json:"url"`
	HasAudio   bool           `json:"has_audio"`
	HasVideo   bool           `json:"has_video"`
	Bitrate    *float64       `json:"bitrate"`
	AudioCodec string         `json:"audio_codec"`
	Ext        string         `json:"ext"`
	FileSize   *int64         `json:"file_size"`
	Cookies    map[string]any `json:"cookies"`
}

// Result aggregates the metadata for one extraction request.
type Result struct {
	Title     string   `json:"title"`
	Duration  float64  `json:"duration"`
	Thumbnail string   `json:"thumbnail"`
	Formats   []Format `json:"formats"`
}

// ParseCookieHeader parses a "name=value; other=value; Secure" cookie string
// into a map. A bare Secure attribute marks the preceding cookie with a
// "_secure" entry. Returns nil for an empty input.
func ParseCookieHeader(raw string) map[string]any {
	if raw == "" {
		return nil
	}

	cookies := make(map[string]any)
	var current string

	for _, part := range strings.Split(raw, "; ") {
		if name, value, ok := strings.Cut(part, "="); ok {
			switch strings.ToLower(name) {
			case "domain", "path", "secure", "expires":
				continue
			}
			current = name
			cookies[current] = value
		} else if strings.EqualFold(part, "secure") && current != "" {
			cookies[current+"_secure"] = true
		}
	}

	if len(cookies) == 0 {
		return nil
	}
	return cookies
}
