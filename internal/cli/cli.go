// Package cli implements the labelforge command-line interface.
//
// This package provides commands for generating barcode workbooks,
// appending to existing ones, composing printable A4 PDF sheets, running
// the HTTP API, and managing the barcode render cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - generate: Create a new Excel workbook with a sequence of barcodes
//   - append: Add a code range to an existing workbook
//   - pdf: Compose a printable A4 sheet from a workbook
//   - serve: Run the labelforge HTTP API
//   - cache: Manage the barcode render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/labelforge/labelforge/pkg/barcode"
	"github.com/labelforge/labelforge/pkg/buildinfo"
	"github.com/labelforge/labelforge/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "labelforge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "labelforge",
		Short:        "Labelforge generates barcode workbooks and printable label sheets",
		Long:         `Labelforge is a CLI tool for generating sequential Code128 and QR barcodes, writing them into Excel workbooks, and composing printable A4 label sheets as PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Every command reads its logger from the context, so attach it
	// before any RunE fires.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.appendCommand())
	root.AddCommand(c.pdfCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRenderer builds the barcode renderer for CLI use, wrapping it with
// the file cache unless caching is disabled.
func newRenderer(qr, noCache bool) barcode.Renderer {
	var r barcode.Renderer
	if qr {
		r = barcode.NewQR()
	} else {
		r = barcode.NewCode128()
	}
	return barcode.NewCaching(r, newCache(noCache))
}

func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return c
}

// cacheDir returns the cache directory using XDG standard (~/.cache/labelforge/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
