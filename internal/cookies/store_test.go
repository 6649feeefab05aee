package cookies

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeSource struct {
	cookies []Cookie
	err     error
	calls   atomic.Int32
	delay   time.Duration
}

func (s *fakeSource) Fetch(ctx context.Context) ([]Cookie, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.cookies, s.err
}

func testCookies() []Cookie {
	return []Cookie{
		{Domain: ".tiktok.com", Name: "tt_session", Value: "abc"},
	}
}

func newTestStore(t *testing.T, source Source, maxAge time.Duration) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cookies.txt")
	return NewStore(path, maxAge, source, zap.NewNop())
}

func TestStorePathMissingFile(t *testing.T) {
	source := &fakeSource{cookies: testCookies()}
	store := newTestStore(t, source, 12*time.Hour)

	path, err := store.Path(context.Background(), false)
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if source.calls.Load() != 1 {
		t.Errorf("fetch calls = %d, want 1", source.calls.Load())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading jar: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Netscape HTTP Cookie File") {
		t.Errorf("jar content = %q, want Netscape format", data)
	}
}

func TestStorePathFreshFile(t *testing.T) {
	source := &fakeSource{cookies: testCookies()}
	store := newTestStore(t, source, 12*time.Hour)

	if _, err := store.Path(context.Background(), false); err != nil {
		t.Fatalf("first Path() error = %v", err)
	}
	if _, err := store.Path(context.Background(), false); err != nil {
		t.Fatalf("second Path() error = %v", err)
	}

	if source.calls.Load() != 1 {
		t.Errorf("fetch calls = %d, want 1 (fresh jar reused)", source.calls.Load())
	}
}

func TestStorePathForce(t *testing.T) {
	source := &fakeSource{cookies: testCookies()}
	store := newTestStore(t, source, 12*time.Hour)

	if _, err := store.Path(context.Background(), false); err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if _, err := store.Path(context.Background(), true); err != nil {
		t.Fatalf("forced Path() error = %v", err)
	}

	if source.calls.Load() != 2 {
		t.Errorf("fetch calls = %d, want 2 (force bypasses freshness)", source.calls.Load())
	}
}

func TestStorePathStaleFile(t *testing.T) {
	source := &fakeSource{cookies: testCookies()}
	store := newTestStore(t, source, time.Nanosecond)

	if _, err := store.Path(context.Background(), false); err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := store.Path(context.Background(), false); err != nil {
		t.Fatalf("second Path() error = %v", err)
	}

	if source.calls.Load() != 2 {
		t.Errorf("fetch calls = %d, want 2 (stale jar regenerated)", source.calls.Load())
	}
}

func TestStorePathCoalescesConcurrentRefreshes(t *testing.T) {
	source := &fakeSource{cookies: testCookies(), delay: 50 * time.Millisecond}
	store := newTestStore(t, source, 12*time.Hour)

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Path(context.Background(), false)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("goroutine %d: Path() error = %v", i, err)
		}
	}
	if got := source.calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1 (concurrent refreshes coalesced)", got)
	}
}

func TestStorePathFetchFailure(t *testing.T) {
	fetchErr := errors.New("navigation failed")
	source := &fakeSource{err: fetchErr}
	store := newTestStore(t, source, 12*time.Hour)

	_, err := store.Path(context.Background(), false)

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("Path() error = %v, want GenerationError", err)
	}
	if !errors.Is(err, fetchErr) {
		t.Errorf("error chain lost the cause: %v", err)
	}

	// No partial jar left behind
	if _, statErr := os.Stat(store.File()); !os.IsNotExist(statErr) {
		t.Errorf("jar exists after failed regeneration: %v", statErr)
	}
	entries, _ := os.ReadDir(filepath.Dir(store.File()))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".cookies-") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestStorePathEmptyFetch(t *testing.T) {
	source := &fakeSource{}
	store := newTestStore(t, source, 12*time.Hour)

	_, err := store.Path(context.Background(), false)

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("Path() error = %v, want GenerationError for empty fetch", err)
	}
}

func TestStorePathFailureKeepsPreviousJar(t *testing.T) {
	source := &fakeSource{cookies: testCookies()}
	store := newTestStore(t, source, 12*time.Hour)

	if _, err := store.Path(context.Background(), false); err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	previous, err := os.ReadFile(store.File())
	if err != nil {
		t.Fatalf("reading jar: %v", err)
	}

	source.err = errors.New("browser crashed")
	if _, err := store.Path(context.Background(), true); err == nil {
		t.Fatal("forced Path() succeeded despite fetch failure")
	}

	current, err := os.ReadFile(store.File())
	if err != nil {
		t.Fatalf("jar unreadable after failed refresh: %v", err)
	}
	if string(current) != string(previous) {
		t.Error("failed refresh modified the previous jar")
	}
}

func TestGenerationErrorTimeout(t *testing.T) {
	timedOut := &GenerationError{Err: context.DeadlineExceeded}
	if !timedOut.Timeout() {
		t.Error("Timeout() = false for deadline exceeded")
	}

	other := &GenerationError{Err: errors.New("boom")}
	if other.Timeout() {
		t.Error("Timeout() = true for non-deadline error")
	}
}

func TestStoreAge(t *testing.T) {
	source := &fakeSource{cookies: testCookies()}
	store := newTestStore(t, source, 12*time.Hour)

	if _, err := store.Age(); err == nil {
		t.Error("Age() succeeded for missing jar")
	}

	if _, err := store.Path(context.Background(), false); err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	age, err := store.Age()
	if err != nil {
		t.Fatalf("Age() error = %v", err)
	}
	if age < 0 || age > time.Minute {
		t.Errorf("Age() = %v, want a small positive duration", age)
	}
}
