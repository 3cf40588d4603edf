// Package archive loads a compiled class archive (jar or directory of .class
// files) and exposes its classes plus the constructor signature index built
// from them.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hytalekt/stubgen/classfile"
	"github.com/hytalekt/stubgen/signature"
)

type Kind string

const (
	KindClass      Kind = "class"
	KindInterface  Kind = "interface"
	KindEnum       Kind = "enum"
	KindRecord     Kind = "record"
	KindAnnotation Kind = "annotation"
)

// Class is one class of the archive. Immutable after extraction.
type Class struct {
	Name string // canonical: dotted package, '$' nesting
	Kind Kind
	File *classfile.ClassFile
}

func (c *Class) Package() string {
	if i := strings.LastIndexByte(c.Name, '.'); i >= 0 {
		return c.Name[:i]
	}
	return ""
}

func (c *Class) SimpleName() string {
	name := c.Name
	if i := strings.LastIndexByte(name, '$'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (c *Class) IsNested() bool {
	return strings.ContainsRune(c.Name, '$')
}

// TypeParamNames returns the declared type-parameter names in order.
func (c *Class) TypeParamNames() []string {
	if c.File.Signature == "" {
		return nil
	}
	cs, err := signature.ParseClassSig(c.File.Signature)
	if err != nil {
		return nil
	}
	names := make([]string, len(cs.TypeParams))
	for i, tp := range cs.TypeParams {
		names[i] = tp.Name
	}
	return names
}

// Archive holds every loaded class plus the signature index. Populated once
// by Load and read-only afterwards, so per-class workers share it freely.
type Archive struct {
	classes map[string]*Class
	order   []string
	index   *signature.Index
}

// Load reads a .jar/.zip file or a directory tree of .class files.
func Load(path string) (*Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	a := &Archive{
		classes: make(map[string]*Class),
		index:   signature.NewIndex(),
	}
	if info.IsDir() {
		err = a.loadDir(path)
	} else {
		err = a.loadZip(path)
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(a.order)
	return a, nil
}

// FromClassFiles builds an in-memory archive from already-parsed class
// files. Mostly useful for composing small fixtures.
func FromClassFiles(files ...*classfile.ClassFile) *Archive {
	a := &Archive{
		classes: make(map[string]*Class),
		index:   signature.NewIndex(),
	}
	for _, cf := range files {
		c := &Class{
			Name: signature.Key(cf.Name),
			Kind: kindOf(cf),
			File: cf,
		}
		a.classes[c.Name] = c
		a.order = append(a.order, c.Name)
		a.index.Add(cf)
	}
	sort.Strings(a.order)
	return a
}

func (a *Archive) loadDir(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".class" {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return a.add(f, path)
	})
}

func (a *Archive) loadZip(path string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if !strings.HasSuffix(entry.Name, ".class") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", entry.Name, err)
		}
		err = a.add(rc, entry.Name)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *Archive) add(r io.Reader, origin string) error {
	cf, err := classfile.Parse(r)
	if err != nil {
		return fmt.Errorf("parse %s: %w", origin, err)
	}
	if cf.IsModule() || strings.HasSuffix(cf.Name, "/package-info") {
		return nil
	}
	c := &Class{
		Name: signature.Key(cf.Name),
		Kind: kindOf(cf),
		File: cf,
	}
	a.classes[c.Name] = c
	a.order = append(a.order, c.Name)
	a.index.Add(cf)
	return nil
}

func kindOf(cf *classfile.ClassFile) Kind {
	switch {
	case cf.IsAnnotation():
		return KindAnnotation
	case cf.IsInterface():
		return KindInterface
	case cf.IsEnum():
		return KindEnum
	case cf.IsRecord():
		return KindRecord
	default:
		return KindClass
	}
}

// Index returns the signature index. Read-only.
func (a *Archive) Index() *signature.Index { return a.index }

func (a *Archive) Class(name string) *Class { return a.classes[name] }

// Names lists every class in sorted order.
func (a *Archive) Names() []string { return a.order }

// TopLevel lists classes that are not nested inside another type; nested
// types are emitted as part of their enclosing declaration.
func (a *Archive) TopLevel() []string {
	var out []string
	for _, name := range a.order {
		if !strings.ContainsRune(name, '$') {
			out = append(out, name)
		}
	}
	return out
}

func (a *Archive) Len() int { return len(a.classes) }
