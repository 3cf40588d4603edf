// Package patch overlays hand-maintained source files onto a generated stub
// tree. Patches mirror the output layout: patches/com/example/Foo.java
// replaces the generated com/example/Foo.java wholesale.
package patch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("stubgen.patch")

// Overlay copies every .java file under patchDir onto the same relative path
// below outDir. A missing patch directory is not an error; overlaying nothing
// is the common case. Returns the applied paths, slash-separated and relative
// to outDir.
func Overlay(patchDir, outDir string) ([]string, error) {
	info, err := os.Stat(patchDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat patch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("patch path %s is not a directory", patchDir)
	}

	var applied []string
	err = filepath.WalkDir(patchDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(d.Name(), ".java") {
			return err
		}
		rel, err := filepath.Rel(patchDir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read patch %s: %w", rel, err)
		}
		dest := filepath.Join(outDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("create patch target directory: %w", err)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("write patch %s: %w", rel, err)
		}
		log.Infof("applied patch %s", rel)
		applied = append(applied, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}
