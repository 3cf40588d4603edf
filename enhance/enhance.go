// Package enhance runs generated stubs through a language model to add
// documentation. Responses are cached by content hash, so re-running over an
// unchanged tree costs no API calls.
package enhance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/hytalekt/stubgen/javatext"
	"github.com/hytalekt/stubgen/stub"
)

var log = commonlog.GetLogger("stubgen.enhance")

// ErrTooLarge marks sources over the configured size limits; they are
// counted as skipped, never sent to the model.
var ErrTooLarge = errors.New("source too large to enhance")

const frontCacheSize = 512

// Summary is the outcome of one enhancement run.
type Summary struct {
	Enhanced int
	Cached   int
	Skipped  int
	Failed   int
}

// Enhancer rewrites stub sources in place. Safe for one Run at a time.
type Enhancer struct {
	gen   Generator
	cfg   *Config
	front *lru.Cache[string, string]
	sem   *semaphore.Weighted

	mu  sync.Mutex
	sum Summary
}

func New(gen Generator, cfg *Config) (*Enhancer, error) {
	front, err := lru.New[string, string](frontCacheSize)
	if err != nil {
		return nil, err
	}
	jobs := cfg.Jobs
	if jobs < 1 {
		jobs = 1
	}
	return &Enhancer{
		gen:   gen,
		cfg:   cfg,
		front: front,
		sem:   semaphore.NewWeighted(int64(jobs)),
	}, nil
}

// Run enhances every .java file under dir. Per-file failures are counted in
// the summary rather than aborting the run; only context cancellation stops
// the walk early.
func (e *Enhancer) Run(ctx context.Context, dir string) (*Summary, error) {
	if e.cfg.CacheDir != "" {
		if err := os.MkdirAll(e.cfg.CacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("create response cache: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(d.Name(), ".java") {
			return err
		}
		if !e.wants(path) {
			return nil
		}
		g.Go(func() error {
			if err := e.sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer e.sem.Release(1)
			e.file(ctx, path)
			return ctx.Err()
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, walkErr
	}
	sum := e.sum
	return &sum, nil
}

// wants applies the class-name filter and always leaves the sentinel
// exception alone.
func (e *Enhancer) wants(path string) bool {
	name := strings.TrimSuffix(filepath.Base(path), ".java")
	if name == stub.SentinelClass {
		return false
	}
	if e.cfg.Filter == "" {
		return true
	}
	if ok, err := filepath.Match(e.cfg.Filter, name); err == nil {
		return ok
	}
	return strings.Contains(name, e.cfg.Filter)
}

func (e *Enhancer) file(ctx context.Context, path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		e.record(func(s *Summary) { s.Failed++ })
		log.Errorf("read %s: %s", path, err.Error())
		return
	}
	out, fromCache, err := e.Enhance(ctx, string(src))
	switch {
	case errors.Is(err, ErrTooLarge):
		e.record(func(s *Summary) { s.Skipped++ })
		log.Infof("skipping %s: over the size limit", path)
	case err != nil:
		e.record(func(s *Summary) { s.Failed++ })
		log.Warningf("enhance %s: %s", path, err.Error())
	default:
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			e.record(func(s *Summary) { s.Failed++ })
			log.Errorf("write %s: %s", path, err.Error())
			return
		}
		if fromCache {
			e.record(func(s *Summary) { s.Cached++ })
		} else {
			e.record(func(s *Summary) { s.Enhanced++ })
		}
	}
}

// Enhance returns the enhanced form of one source file and whether it was
// served from cache. Responses that no longer parse as Java are rejected.
func (e *Enhancer) Enhance(ctx context.Context, src string) (string, bool, error) {
	if e.cfg.MaxChars > 0 && len(src) > e.cfg.MaxChars ||
		e.cfg.MaxLines > 0 && strings.Count(src, "\n") > e.cfg.MaxLines {
		return "", false, ErrTooLarge
	}

	key := e.key(src)
	if out, ok := e.front.Get(key); ok {
		return out, true, nil
	}
	if out, ok := e.readCache(key); ok {
		e.front.Add(key, out)
		return out, true, nil
	}

	out, err := e.gen.Generate(ctx, e.cfg.Prompt+"\n\n"+src)
	if err != nil {
		return "", false, err
	}
	out = stripFences(out)
	if _, err := javatext.Parse(out); err != nil {
		return "", false, fmt.Errorf("model response is not parseable Java: %w", err)
	}

	e.front.Add(key, out)
	if err := e.writeCache(key, out); err != nil {
		log.Warningf("cache write: %s", err.Error())
	}
	return out, false, nil
}

// key hashes everything that influences the response, so changing the
// prompt, model or temperature invalidates old entries automatically.
func (e *Enhancer) key(src string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%g|", e.cfg.Prompt, e.cfg.Model, e.cfg.Temperature)
	io.WriteString(h, src)
	return hex.EncodeToString(h.Sum(nil))
}

func (e *Enhancer) readCache(key string) (string, bool) {
	if e.cfg.CacheDir == "" {
		return "", false
	}
	data, err := os.ReadFile(filepath.Join(e.cfg.CacheDir, key+".java"))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// writeCache goes through a uniquely named temp file and a rename, so
// concurrent workers never observe a half-written entry.
func (e *Enhancer) writeCache(key, out string) error {
	if e.cfg.CacheDir == "" {
		return nil
	}
	tmp := filepath.Join(e.cfg.CacheDir, uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, []byte(out), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(e.cfg.CacheDir, key+".java"))
}

func (e *Enhancer) record(f func(*Summary)) {
	e.mu.Lock()
	f(&e.sum)
	e.mu.Unlock()
}

// stripFences unwraps a markdown code block when the model insists on one.
func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		t = t[i+1:]
	}
	if i := strings.LastIndex(t, "```"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t) + "\n"
}
