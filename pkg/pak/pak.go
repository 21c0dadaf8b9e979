// Package pak provides reading functionality for Quake PAK archives.
package pak

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Faultbox/bspslice/pkg/encoding"
)

const (
	pakMagic      = "PACK"
	headerSize    = 12
	entrySize     = 64
	entryNameSize = 56
)

// PAK archive errors.
var (
	ErrInvalidMagic  = errors.New("invalid PAK magic: expected 'PACK'")
	ErrInvalidTable  = errors.New("invalid PAK directory")
	ErrEntryNotFound = errors.New("file not found in PAK")
)

// Archive represents an opened PAK archive.
type Archive struct {
	file     *os.File
	header   Header
	fileList map[string]*Entry
	order    []string
}

// Header contains PAK file header information.
type Header struct {
	Magic           [4]byte
	DirectoryOffset int32
	DirectoryLength int32
}

// Entry represents a file entry in the archive.
type Entry struct {
	Name   string
	Offset int32
	Size   int32
}

// Open opens a PAK archive for reading.
func Open(path string) (*Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	archive := &Archive{
		file:     file,
		fileList: make(map[string]*Entry),
	}

	if err := archive.readHeader(); err != nil {
		file.Close()
		return nil, fmt.Errorf("reading header: %w", err)
	}

	if err := archive.readDirectory(); err != nil {
		file.Close()
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	return archive, nil
}

// Close closes the archive.
func (a *Archive) Close() error {
	if a.file != nil {
		return a.file.Close()
	}
	return nil
}

func (a *Archive) readHeader() error {
	if _, err := a.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	if err := binary.Read(a.file, binary.LittleEndian, &a.header); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMagic, err)
	}

	if string(a.header.Magic[:]) != pakMagic {
		return ErrInvalidMagic
	}

	return nil
}

func (a *Archive) readDirectory() error {
	info, err := a.file.Stat()
	if err != nil {
		return err
	}

	offset, length := int64(a.header.DirectoryOffset), int64(a.header.DirectoryLength)
	if offset < headerSize || length < 0 || length%entrySize != 0 || offset+length > info.Size() {
		return fmt.Errorf("%w: [%d, +%d) in %d bytes", ErrInvalidTable, offset, length, info.Size())
	}

	table := make([]byte, length)
	if _, err := a.file.ReadAt(table, offset); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}

	for pos := 0; pos < len(table); pos += entrySize {
		record := table[pos : pos+entrySize]
		entry := &Entry{
			Name:   normalizePath(encoding.FixedString(record[:entryNameSize])),
			Offset: int32(binary.LittleEndian.Uint32(record[56:])),
			Size:   int32(binary.LittleEndian.Uint32(record[60:])),
		}

		if entry.Offset < 0 || entry.Size < 0 || int64(entry.Offset)+int64(entry.Size) > info.Size() {
			return fmt.Errorf("%w: entry %q out of range", ErrInvalidTable, entry.Name)
		}

		if _, dup := a.fileList[entry.Name]; !dup {
			a.order = append(a.order, entry.Name)
		}
		a.fileList[entry.Name] = entry
	}

	return nil
}

// List returns all file paths in the archive in directory order.
func (a *Archive) List() []string {
	return append([]string(nil), a.order...)
}

// Contains checks if a file exists.
func (a *Archive) Contains(path string) bool {
	_, ok := a.fileList[normalizePath(path)]
	return ok
}

// Read reads a file from the archive.
func (a *Archive) Read(path string) ([]byte, error) {
	entry, ok := a.fileList[normalizePath(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, path)
	}

	data := make([]byte, entry.Size)
	if _, err := a.file.ReadAt(data, int64(entry.Offset)); err != nil {
		return nil, fmt.Errorf("reading %s: %w", entry.Name, err)
	}
	return data, nil
}

// ReadFile reads a single file out of the archive at archivePath.
func ReadFile(archivePath, path string) ([]byte, error) {
	archive, err := Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	return archive.Read(path)
}

// SplitPath splits "archive.pak:maps/e1m1.bsp" into the archive path and
// the entry path. ok is false when path does not name a PAK entry.
func SplitPath(path string) (archivePath, entry string, ok bool) {
	idx := strings.Index(strings.ToLower(path), ".pak:")
	if idx < 0 {
		return "", "", false
	}
	archivePath, entry = path[:idx+4], path[idx+5:]
	if entry == "" {
		return "", "", false
	}
	return archivePath, entry, true
}

func normalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.ToLower(path)
}
