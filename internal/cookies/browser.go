package cookies

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"

	"tokmeta/internal/config"
)

// BrowserSource obtains guest session cookies by driving a headless browser
// to the platform's entry page. A real browser run is what makes the platform
// issue the anti-bot session cookies the extraction engine needs.
type BrowserSource struct {
	guestURL string
	timeout  time.Duration
	log      *zap.Logger
}

// NewBrowserSource creates a browser-driven cookie source for the guest URL
func NewBrowserSource(guestURL string, timeout time.Duration, log *zap.Logger) *BrowserSource {
	return &BrowserSource{
		guestURL: guestURL,
		timeout:  timeout,
		log:      log,
	}
}

// Fetch launches a browser session, visits the guest entry point, and
// collects the session cookies the platform assigned. The browser process is
// torn down on every path, success or failure.
func (s *BrowserSource) Fetch(ctx context.Context) ([]Cookie, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	l := s.createLauncher(true)
	defer l.Cleanup()

	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	s.log.Debug("visiting guest entry point", zap.String("url", s.guestURL))

	if err := page.Navigate(s.guestURL); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", s.guestURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("page load failed: %w", err)
	}

	raw, err := page.Cookies(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}

	cookies := s.convert(raw)
	s.log.Debug("collected session cookies", zap.Int("count", len(cookies)))
	return cookies, nil
}

// convert keeps cookies belonging to the platform's base domain and maps
// them to the jar representation
func (s *BrowserSource) convert(raw []*proto.NetworkCookie) []Cookie {
	base := baseDomain(s.guestURL)

	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		if base != "" && !strings.Contains(c.Domain, base) {
			continue
		}

		var expires time.Time
		// CDP reports -1 for session cookies
		if float64(c.Expires) > 0 {
			expires = time.Unix(int64(c.Expires), 0)
		}

		cookies = append(cookies, Cookie{
			Domain:  c.Domain,
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Secure:  c.Secure,
			Expires: expires,
		})
	}

	return cookies
}

// baseDomain extracts the registrable domain from a URL, e.g.
// "https://www.tiktok.com/" -> "tiktok.com"
func baseDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	parts := strings.Split(u.Hostname(), ".")
	if len(parts) > 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return u.Hostname()
}

func (s *BrowserSource) createLauncher(headless bool) *launcher.Launcher {
	userDataDir := s.getUserDataDir()

	// Check for ROD_BROWSER env var (set in Docker)
	browserPath := os.Getenv("ROD_BROWSER")

	l := launcher.New().
		Headless(headless).
		UserDataDir(userDataDir).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("disable-software-rasterizer").
		Set("disable-extensions").
		Set("disable-background-networking").
		Set("disable-sync").
		Set("disable-translate").
		Set("no-first-run").
		Set("safebrowsing-disable-auto-update").
		Set("window-size", "1920,1080").
		Set("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	// Explicitly set browser path if provided (required for Docker)
	if browserPath != "" {
		l = l.Bin(browserPath)
	}

	return l
}

func (s *BrowserSource) getUserDataDir() string {
	configDir, err := config.ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "tokmeta-browser")
	}
	return filepath.Join(configDir, "browser")
}
