// Package output names and writes rendered drawings.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/bspslice/pkg/pak"
	"github.com/Faultbox/bspslice/pkg/projection"
)

// Format is an output encoding.
type Format string

const (
	FormatSVG     Format = "svg"
	FormatGeoJSON Format = "geojson"
)

var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatSVG, FormatGeoJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension used for f, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// DefaultPath derives the output path from the source map path.
// The source may be an archive reference such as "pak0.pak:maps/e1m1.bsp";
// the drawing then lands next to the archive, named after the entry.
//
// With slicing on the name records both axes: e1m1_z_z.svg.
func DefaultPath(source string, format Format, proj, slicing projection.Axis, sliced bool) string {
	dir, name := filepath.Dir(source), source
	if archive, entry, ok := pak.SplitPath(source); ok {
		dir, name = filepath.Dir(archive), entry
	}

	base := strings.TrimSuffix(filepath.Base(filepath.FromSlash(name)), filepath.Ext(name))
	if sliced {
		base = fmt.Sprintf("%s_%s_%s", base, proj, slicing)
	}
	return filepath.Join(dir, base+"."+format.Ext())
}

// WriteFile writes the output of encode to path atomically: the data is
// encoded into a temporary file in the same directory which is renamed over
// path only once encoding succeeded. A failed encode leaves path untouched.
func WriteFile(path string, encode func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = encode(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming output: %w", err)
	}
	return nil
}
