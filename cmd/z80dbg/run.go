package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intuitionamiga/z80core/z80"
)

func newRunCmd() *cobra.Command {
	var origin uint16
	var maxSteps int

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a flat binary image until HALT, a return to --origin, or --max-steps",
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

			var totalNs float64
			for i := 0; i < maxSteps; i++ {
				pc := cpu.GetCurrentPC()
				totalNs += cpu.ExecuteStep()
				cpu.ExecuteCommit()
				if cpu.GetCurrentPC() == pc && cpu.GetRawData(pc) == 0x76 {
					break // HALT leaves PC on the HALT byte
				}
				if cpu.GetCurrentPC() == origin && i > 0 {
					break
				}
			}
			fmt.Printf("stopped at PC=%04X after %.0f ns\n", cpu.GetCurrentPC(), totalNs)
			return nil
		},
	}
	cmd.Flags().Uint16Var(&origin, "origin", 0, "address the image is loaded at and PC starts from")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 1_000_000, "safety limit on the number of ExecuteStep calls")
	return cmd
}
