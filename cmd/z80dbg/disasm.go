package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intuitionamiga/z80core/z80"
)

func newDisasmCmd() *cobra.Command {
	var origin uint16
	var count int

	cmd := &cobra.Command{
		Use:   "disasm <file>",
		Short: "Disassemble a flat binary image starting at --origin",
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

			addr := origin
			for i := 0; i < count; i++ {
				length, text := cpu.GetOpcodeInfo(addr)
				fmt.Printf("%04X  %s\n", addr, text)
				addr += uint16(length)
			}
			return nil
		},
	}
	cmd.Flags().Uint16Var(&origin, "origin", 0, "address the image is loaded at")
	cmd.Flags().IntVar(&count, "count", 32, "number of instructions to disassemble")
	return cmd
}
