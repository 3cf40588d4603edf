package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hytalekt/stubgen/archive"
	"github.com/hytalekt/stubgen/classfile"
)

func counterClassFile() *classfile.ClassFile {
	return &classfile.ClassFile{
		Access:    classfile.FlagPublic | classfile.FlagSuper,
		Name:      "com/example/Counter",
		SuperName: "java/lang/Object",
		Fields: []classfile.Field{
			{
				Access:        classfile.FlagPublic | classfile.FlagStatic | classfile.FlagFinal,
				Name:          "MAX",
				Descriptor:    "I",
				ConstantValue: int32(42),
			},
			{Access: classfile.FlagPrivate, Name: "count", Descriptor: "I"},
		},
		Methods: []classfile.Method{
			{
				Access:     classfile.FlagPublic,
				Name:       "<init>",
				Descriptor: "(I)V",
				Parameters: []classfile.MethodParameter{{Name: "start"}},
				HasCode:    true,
			},
			{Access: classfile.FlagPublic, Name: "increment", Descriptor: "()I", HasCode: true},
		},
	}
}

func assertGolden(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	require.NoError(t, err)
	t.Errorf("output mismatch:\n%s", diff)
}

const counterGolden = `package com.example;

import io.github.hytalekt.stubs.GeneratedStubException;

public class Counter {
    public static final int MAX = 42;

    private int count;

    public Counter(int start) {
        throw new GeneratedStubException();
    }

    public int increment() {
        throw new GeneratedStubException();
    }
}
`

func TestRunDeclarative(t *testing.T) {
	out := t.TempDir()
	a := archive.FromClassFiles(counterClassFile())

	sum, err := Run(context.Background(), a, Options{OutDir: out, Jobs: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Classes)
	assert.Equal(t, 1, sum.Emitted)
	assert.Equal(t, 0, sum.Decompiled)

	data, err := os.ReadFile(filepath.Join(out, "com", "example", "Counter.java"))
	require.NoError(t, err)
	assertGolden(t, counterGolden, string(data))

	sentinel, err := os.ReadFile(filepath.Join(out, "io", "github", "hytalekt", "stubs", "GeneratedStubException.java"))
	require.NoError(t, err)
	assert.Contains(t, string(sentinel), "public class GeneratedStubException")
}

type fakeDecompiler struct {
	src string
	err error
}

func (f *fakeDecompiler) Decompile(ctx context.Context, cls *archive.Class) (string, error) {
	return f.src, f.err
}

const decompiledCounter = `package com.example;

public class Counter {
    public static final int MAX = 42;

    private int count;

    public Counter(int start) {
        this.count = start;
    }

    public int increment() {
        return ++this.count;
    }
}
`

func TestRunDecompiled(t *testing.T) {
	out := t.TempDir()
	a := archive.FromClassFiles(counterClassFile())

	sum, err := Run(context.Background(), a, Options{
		OutDir:     out,
		Decompiler: &fakeDecompiler{src: decompiledCounter},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Decompiled)
	assert.Equal(t, 0, sum.Fallback)

	data, err := os.ReadFile(filepath.Join(out, "com", "example", "Counter.java"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "throw new GeneratedStubException();")
	assert.NotContains(t, string(data), "++")
}

func TestRunEmitsOriginalTextOnParseFailure(t *testing.T) {
	out := t.TempDir()
	a := archive.FromClassFiles(counterClassFile())

	sum, err := Run(context.Background(), a, Options{
		OutDir:     out,
		Decompiler: &fakeDecompiler{src: "not java at all %%%"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Fallback)
	assert.Equal(t, 0, sum.Emitted)

	data, err := os.ReadFile(filepath.Join(out, "com", "example", "Counter.java"))
	require.NoError(t, err)
	assert.Equal(t, "not java at all %%%", string(data))
}

func TestRunFallsBackOnDecompilerError(t *testing.T) {
	out := t.TempDir()
	a := archive.FromClassFiles(counterClassFile())

	sum, err := Run(context.Background(), a, Options{
		OutDir:     out,
		Decompiler: &fakeDecompiler{err: assert.AnError},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Fallback)
	assert.Equal(t, 1, sum.Emitted)

	data, err := os.ReadFile(filepath.Join(out, "com", "example", "Counter.java"))
	require.NoError(t, err)
	assertGolden(t, counterGolden, string(data))
}

func TestRunAppliesPatches(t *testing.T) {
	out := t.TempDir()
	patches := t.TempDir()
	patched := filepath.Join(patches, "com", "example")
	require.NoError(t, os.MkdirAll(patched, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(patched, "Counter.java"), []byte("// patched\n"), 0o644))

	a := archive.FromClassFiles(counterClassFile())
	sum, err := Run(context.Background(), a, Options{OutDir: out, PatchDir: patches})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Patched)

	data, err := os.ReadFile(filepath.Join(out, "com", "example", "Counter.java"))
	require.NoError(t, err)
	assert.Equal(t, "// patched\n", string(data))
}

func TestProcessSource(t *testing.T) {
	a := archive.FromClassFiles(counterClassFile())
	got, err := ProcessSource(a.Index(), decompiledCounter)
	require.NoError(t, err)
	assertGolden(t, counterGolden, got)

	_, err = ProcessSource(a.Index(), "garbage {{{")
	assert.Error(t, err)
}

func TestExecDecompiler(t *testing.T) {
	a := archive.FromClassFiles(counterClassFile())
	cls := a.Class("com.example.Counter")

	d := &ExecDecompiler{
		Command: "sh",
		Args:    []string{"-c", "echo decompiling {class} from {archive}"},
		Archive: "lib.jar",
	}
	out, err := d.Decompile(context.Background(), cls)
	require.NoError(t, err)
	assert.Equal(t, "decompiling com/example/Counter from lib.jar\n", out)

	d = &ExecDecompiler{Command: "false"}
	_, err = d.Decompile(context.Background(), cls)
	assert.Error(t, err)

	d = &ExecDecompiler{Command: "true"}
	_, err = d.Decompile(context.Background(), cls)
	assert.Error(t, err)
}
