package pak

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/bspslice/pkg/encoding"
)

type testFile struct {
	name    string
	content []byte
}

// createTestPAK writes a PAK archive holding files and returns its path.
func createTestPAK(t *testing.T, files []testFile) string {
	t.Helper()

	buf := new(bytes.Buffer)
	buf.WriteString(pakMagic)
	binary.Write(buf, binary.LittleEndian, int32(0)) // directory offset, patched below
	binary.Write(buf, binary.LittleEndian, int32(len(files)*entrySize))

	offsets := make([]int32, len(files))
	for i, f := range files {
		offsets[i] = int32(buf.Len())
		buf.Write(f.content)
	}

	dirOffset := int32(buf.Len())
	for i, f := range files {
		buf.Write(encoding.ToFixedString(f.name, entryNameSize))
		binary.Write(buf, binary.LittleEndian, offsets[i])
		binary.Write(buf, binary.LittleEndian, int32(len(f.content)))
	}

	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[4:], uint32(dirOffset))

	path := filepath.Join(t.TempDir(), "pak0.pak")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write test PAK: %v", err)
	}
	return path
}

var sampleFiles = []testFile{
	{"maps/e1m1.bsp", []byte("fake bsp data")},
	{"progs/player.mdl", []byte("IDPO")},
	{"gfx/palette.lmp", make([]byte, 768)},
}

func TestOpen(t *testing.T) {
	archive, err := Open(createTestPAK(t, sampleFiles))
	if err != nil {
		t.Fatalf("failed to open PAK: %v", err)
	}
	defer archive.Close()

	files := archive.List()
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	for i, f := range sampleFiles {
		if files[i] != f.name {
			t.Errorf("file %d: expected %q, got %q", i, f.name, files[i])
		}
	}
}

func TestContains(t *testing.T) {
	archive, err := Open(createTestPAK(t, sampleFiles))
	if err != nil {
		t.Fatalf("failed to open PAK: %v", err)
	}
	defer archive.Close()

	if !archive.Contains("maps/e1m1.bsp") {
		t.Error("Contains returned false for existing file")
	}
	if !archive.Contains("MAPS\\E1M1.BSP") {
		t.Error("Contains should be case and separator insensitive")
	}
	if archive.Contains("maps/e1m2.bsp") {
		t.Error("Contains returned true for non-existent file")
	}
}

func TestRead(t *testing.T) {
	archive, err := Open(createTestPAK(t, sampleFiles))
	if err != nil {
		t.Fatalf("failed to open PAK: %v", err)
	}
	defer archive.Close()

	for _, f := range sampleFiles {
		data, err := archive.Read(f.name)
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.name, err)
		}
		if !bytes.Equal(data, f.content) {
			t.Errorf("%s: content mismatch", f.name)
		}
	}

	if _, err := archive.Read("missing.txt"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	path := createTestPAK(t, sampleFiles)

	data, err := ReadFile(path, "progs/player.mdl")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "IDPO" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestOpen_InvalidMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pak")
	if err := os.WriteFile(path, []byte("WAD2\x00\x00\x00\x00\x00\x00\x00\x00"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := Open(path); !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestOpen_InvalidDirectory(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.WriteString(pakMagic)
	binary.Write(buf, binary.LittleEndian, int32(12))
	binary.Write(buf, binary.LittleEndian, int32(entrySize)) // directory runs past EOF

	path := filepath.Join(t.TempDir(), "short.pak")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := Open(path); !errors.Is(err, ErrInvalidTable) {
		t.Errorf("expected ErrInvalidTable, got %v", err)
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path    string
		archive string
		entry   string
		ok      bool
	}{
		{"id1/pak0.pak:maps/e1m1.bsp", "id1/pak0.pak", "maps/e1m1.bsp", true},
		{"ID1/PAK1.PAK:maps/end.bsp", "ID1/PAK1.PAK", "maps/end.bsp", true},
		{"maps/e1m1.bsp", "", "", false},
		{"pak0.pak:", "", "", false},
	}

	for _, tc := range tests {
		archive, entry, ok := SplitPath(tc.path)
		if archive != tc.archive || entry != tc.entry || ok != tc.ok {
			t.Errorf("SplitPath(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.path, archive, entry, ok, tc.archive, tc.entry, tc.ok)
		}
	}
}
