// Package cookies manages the session-cookie file handed to the extraction
// engine: a single Netscape-format jar that is regenerated through browser
// automation when missing, stale, or explicitly forced.
package cookies

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Source produces a fresh set of session cookies for the target platform.
type Source interface {
	Fetch(ctx context.Context) ([]Cookie, error)
}

// Cookie is one session cookie destined for the jar file.
type Cookie struct {
	Domain  string
	Name    string
	Value   string
	Path    string
	Secure  bool
	Expires time.Time
}

// GenerationError reports a failed cookie regeneration. The previous jar, if
// any, is left untouched.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("cookie generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Timeout reports whether the regeneration failed by exceeding its deadline
func (e *GenerationError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Store hands out the path to a usable cookie jar. The jar is process-wide
// shared state, so concurrent refreshes are coalesced: callers arriving while
// a regeneration is in flight share its outcome instead of launching another
// browser.
type Store struct {
	path   string
	maxAge time.Duration
	source Source
	log    *zap.Logger
	group  singleflight.Group
}

// NewStore creates a cookie store persisting to path
func NewStore(path string, maxAge time.Duration, source Source, log *zap.Logger) *Store {
	return &Store{
		path:   path,
		maxAge: maxAge,
		source: source,
		log:    log,
	}
}

// File returns the jar path without checking freshness
func (s *Store) File() string { return s.path }

// Age returns the time since the jar was last written, or an error when the
// jar does not exist.
func (s *Store) Age() (time.Duration, error) {
	fi, err := os.Stat(s.path)
	if err != nil {
		return 0, err
	}
	return time.Since(fi.ModTime()), nil
}

// Path returns the path to a valid cookie jar, regenerating it first when
// force is set, the file is missing, or its age exceeds the staleness
// threshold.
func (s *Store) Path(ctx context.Context, force bool) (string, error) {
	if !force && s.fresh() {
		return s.path, nil
	}

	_, err, _ := s.group.Do(s.path, func() (any, error) {
		// A caller that queued behind a completed refresh finds a fresh
		// jar and is done, unless it explicitly forced regeneration.
		if !force && s.fresh() {
			return nil, nil
		}
		// The refresh outcome is shared across coalesced callers, so it
		// must not die with whichever caller happened to start it. The
		// source applies its own deadline.
		return nil, s.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}

	return s.path, nil
}

func (s *Store) fresh() bool {
	age, err := s.Age()
	if err != nil {
		return false
	}
	return age < s.maxAge
}

func (s *Store) refresh(ctx context.Context) error {
	s.log.Info("regenerating cookie jar", zap.String("path", s.path))

	fetched, err := s.source.Fetch(ctx)
	if err != nil {
		return &GenerationError{Err: err}
	}
	if len(fetched) == 0 {
		return &GenerationError{Err: errors.New("platform issued no session cookies")}
	}

	if err := s.write(fetched); err != nil {
		return &GenerationError{Err: err}
	}

	s.log.Info("cookie jar written",
		zap.String("path", s.path),
		zap.Int("cookies", len(fetched)))
	return nil
}

// write persists the jar atomically: the serialized content goes to a temp
// file in the same directory, then replaces the jar in a single rename so a
// failed regeneration never leaves a partial file.
func (s *Store) write(fetched []Cookie) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cookie directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cookies-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp cookie file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(MarshalNetscape(fetched)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cookie file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cookie file: %w", err)
	}

	return nil
}
