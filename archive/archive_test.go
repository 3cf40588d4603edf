package archive

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// classBytes assembles the smallest valid class file: a constant pool with
// the two class references and nothing else.
func classBytes(name, super string, access uint16) []byte {
	var pool bytes.Buffer
	utf8 := func(s string) {
		pool.WriteByte(1)
		binary.Write(&pool, binary.BigEndian, uint16(len(s)))
		pool.WriteString(s)
	}
	class := func(utf8Index uint16) {
		pool.WriteByte(7)
		binary.Write(&pool, binary.BigEndian, utf8Index)
	}
	utf8(name)  // 1
	class(1)    // 2
	utf8(super) // 3
	class(3)    // 4

	var out bytes.Buffer
	w := func(vs ...any) {
		for _, v := range vs {
			binary.Write(&out, binary.BigEndian, v)
		}
	}
	w(uint32(0xCAFEBABE), uint16(0), uint16(61), uint16(5))
	out.Write(pool.Bytes())
	w(access, uint16(2), uint16(4))
	w(uint16(0), uint16(0), uint16(0), uint16(0)) // ifaces, fields, methods, attrs
	return out.Bytes()
}

func writeClass(t *testing.T, root, internalName string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(internalName)+".class")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDirectory(t *testing.T) {
	root := t.TempDir()
	writeClass(t, root, "com/example/Foo", classBytes("com/example/Foo", "java/lang/Object", 0x0021))
	writeClass(t, root, "com/example/Task", classBytes("com/example/Task", "java/lang/Object", 0x0601))
	writeClass(t, root, "com/example/Color", classBytes("com/example/Color", "java/lang/Enum", 0x4031))
	writeClass(t, root, "com/example/Foo$Inner", classBytes("com/example/Foo$Inner", "java/lang/Object", 0x0021))

	a, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Len() != 4 {
		t.Fatalf("Len = %d", a.Len())
	}

	foo := a.Class("com.example.Foo")
	if foo == nil || foo.Kind != KindClass {
		t.Fatalf("Foo = %+v", foo)
	}
	if foo.Package() != "com.example" || foo.SimpleName() != "Foo" || foo.IsNested() {
		t.Errorf("Foo identity = %q %q %v", foo.Package(), foo.SimpleName(), foo.IsNested())
	}
	if k := a.Class("com.example.Task").Kind; k != KindInterface {
		t.Errorf("Task kind = %q", k)
	}
	if k := a.Class("com.example.Color").Kind; k != KindEnum {
		t.Errorf("Color kind = %q", k)
	}

	inner := a.Class("com.example.Foo$Inner")
	if inner == nil || !inner.IsNested() || inner.SimpleName() != "Inner" {
		t.Errorf("Inner = %+v", inner)
	}

	top := a.TopLevel()
	if len(top) != 3 {
		t.Errorf("TopLevel = %v", top)
	}
	if !a.Index().Has("com.example.Foo") {
		t.Errorf("index missing loaded class")
	}
}

func TestLoadZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.jar")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	entry, err := zw.Create("com/example/Foo.class")
	if err != nil {
		t.Fatal(err)
	}
	entry.Write(classBytes("com/example/Foo", "java/lang/Object", 0x0021))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Len() != 1 || a.Class("com.example.Foo") == nil {
		t.Errorf("archive = %v", a.Names())
	}
}
