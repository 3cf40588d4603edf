// Package pipeline drives stub generation end to end: load the archive,
// obtain source per top-level class (decompiler output or metadata
// reconstruction), transform it into a stub and write the mirrored package
// tree, then apply patches on top.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/hytalekt/stubgen/archive"
	"github.com/hytalekt/stubgen/emit"
	"github.com/hytalekt/stubgen/javatext"
	"github.com/hytalekt/stubgen/patch"
	"github.com/hytalekt/stubgen/sanitize"
	"github.com/hytalekt/stubgen/signature"
	"github.com/hytalekt/stubgen/stub"
)

var log = commonlog.GetLogger("stubgen.pipeline")

// Decompiler turns one class of the archive into Java source.
type Decompiler interface {
	Decompile(ctx context.Context, cls *archive.Class) (string, error)
}

type Options struct {
	Archive    string
	OutDir     string
	PatchDir   string     // "" disables the overlay
	Jobs       int        // <1 means NumCPU
	Decompiler Decompiler // nil reconstructs every class from metadata
}

// Summary is the outcome of one generation run. Fallback counts classes
// whose decompiler output was unusable and were reconstructed instead.
type Summary struct {
	Classes    int
	Decompiled int
	Emitted    int
	Fallback   int
	Patched    int
}

// Generate loads the archive at opts.Archive and runs the full pipeline.
func Generate(ctx context.Context, opts Options) (*Summary, error) {
	a, err := archive.Load(opts.Archive)
	if err != nil {
		return nil, err
	}
	return Run(ctx, a, opts)
}

// Run generates stubs for every top-level class of an already loaded
// archive.
func Run(ctx context.Context, a *archive.Archive, opts Options) (*Summary, error) {
	r := &run{
		archive:     a,
		opts:        opts,
		transformer: stub.New(a.Index()),
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, name := range a.TopLevel() {
		cls := a.Class(name)
		g.Go(func() error { return r.process(ctx, cls) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sentinelPath := filepath.Join(opts.OutDir, filepath.FromSlash(emit.SentinelPath))
	if err := writeFile(sentinelPath, emit.SentinelSource()); err != nil {
		return nil, err
	}

	if opts.PatchDir != "" {
		applied, err := patch.Overlay(opts.PatchDir, opts.OutDir)
		if err != nil {
			return nil, err
		}
		r.sum.Patched = len(applied)
	}

	sum := r.sum
	sum.Classes = len(a.TopLevel())
	log.Infof("generated %d classes (%d decompiled, %d emitted, %d fallback)",
		sum.Classes, sum.Decompiled, sum.Emitted, sum.Fallback)
	return &sum, nil
}

type run struct {
	archive     *archive.Archive
	opts        Options
	transformer *stub.Transformer

	mu  sync.Mutex
	sum Summary
}

func (r *run) process(ctx context.Context, cls *archive.Class) error {
	out := filepath.Join(r.opts.OutDir,
		filepath.FromSlash(strings.ReplaceAll(cls.Name, ".", "/"))+".java")

	unit, raw := r.unitFor(ctx, cls)
	if unit == nil {
		// partial-failure tolerance: the class ships with its original text
		return writeFile(out, raw)
	}
	r.transformer.Apply(unit)
	return writeFile(out, javatext.Print(unit))
}

// unitFor prefers decompiled source. When the decompiler produces nothing,
// the class is reconstructed from metadata; when it produces text the parser
// cannot make sense of, that original text is passed through untransformed.
func (r *run) unitFor(ctx context.Context, cls *archive.Class) (*javatext.CompilationUnit, string) {
	if r.opts.Decompiler == nil {
		r.count(func(s *Summary) { s.Emitted++ })
		return emit.Unit(r.archive, cls), ""
	}

	raw, err := r.opts.Decompiler.Decompile(ctx, cls)
	if err != nil {
		log.Warningf("decompile %s: %s; reconstructing from metadata", cls.Name, err.Error())
		r.count(func(s *Summary) { s.Fallback++; s.Emitted++ })
		return emit.Unit(r.archive, cls), ""
	}

	unit, err := javatext.Parse(sanitize.Clean(raw))
	if err != nil {
		log.Warningf("parse %s: %s; emitting original text", cls.Name, err.Error())
		r.count(func(s *Summary) { s.Fallback++ })
		return nil, raw
	}
	r.count(func(s *Summary) { s.Decompiled++ })
	return unit, ""
}

func (r *run) count(f func(*Summary)) {
	r.mu.Lock()
	f(&r.sum)
	r.mu.Unlock()
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ProcessSource stubs a single already-decompiled source text against the
// given index. It is the single-file variant of the pipeline, with no
// fallback: parse failures surface as errors.
func ProcessSource(index *signature.Index, src string) (string, error) {
	unit, err := javatext.Parse(sanitize.Clean(src))
	if err != nil {
		return "", fmt.Errorf("parse source: %w", err)
	}
	stub.New(index).Apply(unit)
	return javatext.Print(unit), nil
}
