package z80

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEIMasksTheFollowingOpcode(t *testing.T) {
	// Per SPEC_FULL §8's EI-mask-window scenario: an INT asserted before EI's
	// own step must not fire until after the instruction immediately
	// following EI has executed.
	rig := newTestRig()
	rig.load(0x0000, []byte{0xFB, 0x00, 0x00}) // EI; NOP; NOP
	rig.cpu.SetLineState(LineINT, true, 0)

	rig.step() // EI: iff1/iff2 set, mask armed
	require.True(t, rig.cpu.iff1)

	rig.step() // NOP, still shielded
	require.Equal(t, uint16(2), rig.cpu.PC)

	rig.step() // INT now accepted instead of the third NOP
	require.Equal(t, uint16(0x0038), rig.cpu.PC)
}

func TestNMIDuringHaltAdvancesPastHalt(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0x76}) // HALT
	rig.cpu.SP = 0x8000

	rig.step() // enters HALT
	require.True(t, rig.cpu.processorStopped)

	rig.cpu.SetLineState(LineNMI, true, 0)
	rig.step() // NMI accepted

	require.False(t, rig.cpu.processorStopped)
	require.Equal(t, uint16(0x0066), rig.cpu.PC)
	// The pushed return address is the byte past HALT (per the documented
	// NMI-during-HALT convention in cpu.go's serviceNMI), not HALT itself.
	require.Equal(t, uint16(0x7FFE), rig.cpu.SP)
	require.Equal(t, byte(0x01), rig.bus.mem[0x7FFE])
	require.Equal(t, byte(0x00), rig.bus.mem[0x7FFF])
}

func TestNMIEdgeTriggeredNotLevel(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0x00, 0x00, 0x00})
	rig.cpu.SetLineState(LineNMI, true, 0)

	rig.step() // accepted once
	require.Equal(t, uint16(0x0066), rig.cpu.PC)

	rig.cpu.PC = 0x0000
	rig.cpu.SetLineState(LineNMI, true, 0) // still asserted, no new edge
	rig.step()
	require.NotEqual(t, uint16(0x0066), rig.cpu.PC)
}

func TestIM1InterruptVectorsTo0038(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0x00})
	rig.cpu.SP = 0x8000
	rig.cpu.iff1 = true
	rig.cpu.interruptMode = IM1
	rig.cpu.SetLineState(LineINT, true, 0)

	rig.step()

	require.Equal(t, uint16(0x0038), rig.cpu.PC)
	require.False(t, rig.cpu.iff1)
}

func TestIM2InterruptReadsVectorTable(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0x00})
	rig.cpu.SP = 0x8000
	rig.cpu.iff1 = true
	rig.cpu.interruptMode = IM2
	rig.cpu.I = 0x20
	rig.cpu.SetIRQVector(0x10)
	rig.bus.mem[0x2010] = 0x00
	rig.bus.mem[0x2011] = 0x60
	rig.cpu.SetLineState(LineINT, true, 0)

	rig.step()

	require.Equal(t, uint16(0x6000), rig.cpu.PC)
}
