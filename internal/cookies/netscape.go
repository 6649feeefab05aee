package cookies

import (
	"fmt"
	"strings"
	"time"
)

// netscapeHeader is the magic first line yt-dlp expects in a cookie jar
const netscapeHeader = "# Netscape HTTP Cookie File"

// defaultExpiry is applied to session cookies, which carry no expiry of
// their own but must have one in the jar format
const defaultExpiry = 365 * 24 * time.Hour

// MarshalNetscape serializes cookies in the Netscape cookie-jar format:
// one tab-delimited record per line of
// domain, include-subdomains, path, secure, expiry, name, value.
func MarshalNetscape(cookies []Cookie) []byte {
	var b strings.Builder
	b.WriteString(netscapeHeader + "\n")

	for _, c := range cookies {
		includeSub := "FALSE"
		if strings.HasPrefix(c.Domain, ".") {
			includeSub = "TRUE"
		}

		secure := "FALSE"
		if c.Secure {
			secure = "TRUE"
		}

		path := c.Path
		if path == "" {
			path = "/"
		}

		expires := c.Expires
		if expires.IsZero() {
			expires = time.Now().Add(defaultExpiry)
		}

		fmt.Fprintf(&b, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			c.Domain, includeSub, path, secure, expires.Unix(), c.Name, c.Value)
	}

	return []byte(b.String())
}
