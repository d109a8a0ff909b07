// Command z80dbg is a small host for the z80 core: load a flat binary
// image into a plain memory bus, then disassemble it, run it to
// completion, or single-step it under a raw terminal, per §6's debug
// surface (GetOpcodeInfo, GetCurrentPC).
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/intuitionamiga/z80core/z80"
)

// logLevel backs the --log-level persistent flag; cobra only populates it
// once Execute() parses args, so every subcommand reads it from here inside
// its own RunE rather than at newRootCmd construction time.
var logLevel string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "z80dbg",
		Short: "Load and drive a z80 core instance against a flat binary image",
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"zerolog level for core diagnostics: debug, info, warn, error, or disabled")
	root.AddCommand(newDisasmCmd(), newRunCmd(), newStepCmd())
	return root
}

// newLogger builds the z80.Logger every subcommand threads into z80.Config,
// backed by --log-level's zerolog.Level writing to stderr.
func newLogger() (z80.Logger, error) {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	return z80.NewZerologLogger(log), nil
}
