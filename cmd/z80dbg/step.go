package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/intuitionamiga/z80core/z80"
)

// newStepCmd puts stdin into raw mode (grounded on the teacher's
// terminal_host.go MakeRaw/Restore pattern) so a single keypress advances
// one ExecuteStep, without waiting for a newline.
func newStepCmd() *cobra.Command {
	var origin uint16

	cmd := &cobra.Command{
		Use:   "step <file>",
		Short: "Single-step a flat binary image interactively (space to step, q to quit)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			bus := newFlatMemoryBus()
			bus.load(origin, data)

			logger, err := newLogger()
			if err != nil {
				return err
			}
			cpu, err := z80.NewCPU(z80.Config{Bus: bus, Logger: logger})
			if err != nil {
				return err
			}
			cpu.PC = origin

			fd := int(os.Stdin.Fd())
			oldState, err := term.MakeRaw(fd)
			if err != nil {
				return fmt.Errorf("step: failed to set raw mode: %w", err)
			}
			defer term.Restore(fd, oldState)

			printState(cpu)
			buf := make([]byte, 1)
			for {
				if _, err := os.Stdin.Read(buf); err != nil {
					return nil
				}
				switch buf[0] {
				case 'q', 'Q', 3: // 3 = Ctrl-C
					return nil
				case ' ', '\r', '\n':
					ns := cpu.ExecuteStep()
					cpu.ExecuteCommit()
					fmt.Printf("\r\n(%.0f ns)\r\n", ns)
					printState(cpu)
				}
			}
		},
	}
	cmd.Flags().Uint16Var(&origin, "origin", 0, "address the image is loaded at and PC starts from")
	return cmd
}

func printState(cpu *z80.CPU) {
	pc := cpu.GetCurrentPC()
	_, text := cpu.GetOpcodeInfo(pc)
	fmt.Printf("PC=%04X  %-24s  A=%02X BC=%04X DE=%04X HL=%04X SP=%04X\r\n",
		pc, text,
		cpu.Get8(z80.RegA), cpu.Get16(z80.RegBC), cpu.Get16(z80.RegDE),
		cpu.Get16(z80.RegHL), cpu.Get16(z80.RegSP))
}
