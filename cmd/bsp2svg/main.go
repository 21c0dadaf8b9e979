// bsp2svg creates an SVG (or GeoJSON) drawing from a Quake BSP map.
//
// Usage:
//
//	bsp2svg [flags] file.bsp
//	bsp2svg [flags] pak0.pak:maps/e1m1.bsp
//
// Example: bsp2svg e1m1.bsp creates e1m1.svg next to the map.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/bspslice/internal/config"
	"github.com/Faultbox/bspslice/internal/convert"
	"github.com/Faultbox/bspslice/internal/logger"
)

const version = "1.0.0"

var flagVersion = flag.Bool("version", false, "Print version and exit")

func main() {
	flag.Usage = usage

	// Parse CLI flags first
	config.ParseFlags()

	if *flagVersion {
		fmt.Printf("bsp2svg version %s\n", version)
		return
	}
	if flag.NArg() != 1 {
		usage()
		if flag.NArg() > 1 {
			fmt.Fprintln(os.Stderr, "\nslice distances need an equals sign: -s=0,128")
		}
		os.Exit(1)
	}
	source := flag.Arg(0)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bsp2svg: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	if path := config.SaveConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			logger.Error("failed to save config", zap.String("path", path), zap.Error(err))
			os.Exit(1)
		}
		logger.Info("saved config", zap.String("path", path))
	}

	if _, err := convert.Run(source, cfg); err != nil {
		logger.Error("conversion failed", zap.String("source", source), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `bsp2svg - create an svg document from a Quake BSP file

Usage:
  bsp2svg [flags] file.bsp
  bsp2svg [flags] pak0.pak:maps/e1m1.bsp

Examples:
  bsp2svg e1m1.bsp                  creates e1m1.svg
  bsp2svg -s e1m1.bsp               detects floors, creates e1m1_z_z.svg
  bsp2svg -p x -l z -s=0,128 e1m1.bsp
  bsp2svg -format geojson -i water1,lava1 e1m1.bsp

Flags:`)
	flag.PrintDefaults()
}
