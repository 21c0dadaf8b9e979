// Package config handles converter configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/Faultbox/bspslice/internal/logger"
	"github.com/Faultbox/bspslice/internal/output"
	"github.com/Faultbox/bspslice/internal/svg"
	"github.com/Faultbox/bspslice/pkg/projection"
	"github.com/Faultbox/bspslice/pkg/slice"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all converter settings.
type Config struct {
	Projection projection.Axis `yaml:"projection"`
	// SlicingAxis defaults to Projection when unset.
	SlicingAxis *projection.Axis `yaml:"slicing_axis,omitempty"`
	Ignore      []string         `yaml:"ignore"`
	Slicing     SlicingConfig    `yaml:"slicing"`
	Output      OutputConfig     `yaml:"output"`
	Style       svg.Style        `yaml:"style"`
	Logging     LoggingConfig    `yaml:"logging"`
}

// SlicingConfig controls layer boundaries.
type SlicingConfig struct {
	Enabled bool `yaml:"enabled"`
	// Boundaries are used verbatim when set; empty means detect.
	Boundaries []float64    `yaml:"boundaries"`
	Detection  slice.Params `yaml:"detection"`
}

// OutputConfig holds the drawing destination.
type OutputConfig struct {
	Format output.Format `yaml:"format"`
	Path   string        `yaml:"path"` // Empty derives the path from the input
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Projection: projection.Z,
		Slicing: SlicingConfig{
			Detection: slice.DefaultParams(),
		},
		Output: OutputConfig{
			Format: output.FormatSVG,
		},
		Style: svg.DefaultStyle(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SliceAxis returns the axis layers are stacked along.
func (c *Config) SliceAxis() projection.Axis {
	if c.SlicingAxis == nil {
		return c.Projection
	}
	return *c.SlicingAxis
}

// SliceOptions converts the slicing section for the layout pipeline.
func (c *Config) SliceOptions() slice.Options {
	return slice.Options{
		Enabled:    c.Slicing.Enabled,
		Boundaries: c.Slicing.Boundaries,
		Params:     c.Slicing.Detection,
	}
}

// Auto reports whether boundaries will be detected rather than given.
func (c *Config) Auto() bool {
	return c.Slicing.Enabled && len(c.Slicing.Boundaries) == 0
}

// Validate reports every setting that would make a conversion fail.
func (c *Config) Validate() error {
	var err error
	invalid := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if !c.Projection.Valid() {
		invalid("projection axis %d", int(c.Projection))
	}
	if !c.SliceAxis().Valid() {
		invalid("slicing axis %d", int(c.SliceAxis()))
	}

	if c.Auto() {
		for _, e := range multierr.Errors(c.Slicing.Detection.Validate()) {
			invalid("%w", e)
		}
	}
	for _, b := range c.Slicing.Boundaries {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			invalid("boundary %v is not finite", b)
		}
	}

	if _, ferr := output.ParseFormat(string(c.Output.Format)); ferr != nil {
		invalid("%w", ferr)
	}
	if !logger.ValidLevel(c.Logging.Level) {
		invalid("log level %q", c.Logging.Level)
	}
	if c.Style.OutlineWidth < 0 || c.Style.StrokeWidth < 0 {
		invalid("stroke widths must not be negative")
	}

	return err
}

// Warnings lists settings that are accepted but likely give poor results.
func (c *Config) Warnings() []string {
	if !c.Auto() {
		return nil
	}
	return c.Slicing.Detection.OutOfRange()
}
