package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/bspslice/pkg/projection"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagQuiet      = flag.Bool("q", false, "Quiet mode, only log warnings and errors")
	flagDest       = flag.String("d", "", "Output file to create (default derived from the input)")
	flagProjection = flag.String("p", "", "Projection axis: z for a top down view, x or y for frontal and lateral views")
	flagSlicing    = flag.String("l", "", "Slicing axis (default the projection axis)")
	flagFormat     = flag.String("format", "", "Output format: svg or geojson")
	flagLogFile    = flag.String("log-file", "", "Also write logs to this file")
	flagSaveConfig = flag.String("save-config", "", "Write the effective config to this file")

	flagIgnore    listFlag
	flagSlices    slicesFlag
	flagDetection paramsFlag
)

func init() {
	flag.Var(&flagIgnore, "i", "Texture name to ignore (repeatable, or comma separated)")
	flag.Var(&flagSlices, "s", "Enable slicing; -s alone detects floors, -s=0,128 sets explicit slice distances (the = is required)")
	flag.Var(&flagDetection, "t", "Detection parameters threshold,min_ratio,merge_gap (default 1,0.3,64)")
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveConfigPath returns the path given with -save-config, if any.
func SaveConfigPath() string {
	return *flagSaveConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagProjection != "" {
		axis, err := projection.ParseAxis(*flagProjection)
		if err != nil {
			return fmt.Errorf("-p: %w", err)
		}
		cfg.Projection = axis
	}
	if *flagSlicing != "" {
		axis, err := projection.ParseAxis(*flagSlicing)
		if err != nil {
			return fmt.Errorf("-l: %w", err)
		}
		cfg.SlicingAxis = &axis
	}
	if len(flagIgnore) > 0 {
		cfg.Ignore = append(cfg.Ignore, flagIgnore...)
	}
	if flagSlices.set {
		cfg.Slicing.Enabled = true
		cfg.Slicing.Boundaries = flagSlices.values
	}
	if flagDetection.set {
		cfg.Slicing.Detection.Threshold = flagDetection.values[0]
		cfg.Slicing.Detection.MinRatio = flagDetection.values[1]
		cfg.Slicing.Detection.MergeGap = flagDetection.values[2]
	}
	if *flagDest != "" {
		cfg.Output.Path = *flagDest
	}
	if *flagFormat != "" {
		cfg.Output.Format = formatOf(*flagFormat)
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagQuiet {
		cfg.Logging.Level = "warn"
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	return nil
}

// listFlag collects strings from repeated or comma separated values.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(s string) error {
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			*l = append(*l, item)
		}
	}
	return nil
}

// slicesFlag is a boolean flag that optionally carries distances.
type slicesFlag struct {
	set    bool
	values []float64
}

func (f *slicesFlag) IsBoolFlag() bool { return true }

func (f *slicesFlag) String() string {
	if f == nil {
		return ""
	}
	return formatFloats(f.values)
}

func (f *slicesFlag) Set(s string) error {
	f.set = true
	f.values = nil
	switch s {
	case "true", "":
		return nil
	case "false":
		f.set = false
		return nil
	}
	values, err := parseFloats(s)
	if err != nil {
		return err
	}
	f.values = values
	return nil
}

// paramsFlag holds exactly three detection parameters.
type paramsFlag struct {
	set    bool
	values [3]float64
}

func (f *paramsFlag) String() string {
	if f == nil || !f.set {
		return ""
	}
	return formatFloats(f.values[:])
}

func (f *paramsFlag) Set(s string) error {
	values, err := parseFloats(s)
	if err != nil {
		return err
	}
	if len(values) != 3 {
		return fmt.Errorf("expected 3 comma separated values, got %d", len(values))
	}
	copy(f.values[:], values)
	f.set = true
	return nil
}

func parseFloats(s string) ([]float64, error) {
	var values []float64
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		v, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", item)
		}
		values = append(values, v)
	}
	return values, nil
}

func formatFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
