package z80

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseLDRegRegTiming(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0x41}) // LD B,C
	rig.cpu.Main.C = 0x99

	ns := rig.step()

	require.Equal(t, byte(0x99), rig.cpu.Main.B)
	require.Equal(t, float64(4), ns)
}

func TestBaseHALTStopsAdvancingPC(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0x76, 0x00}) // HALT; NOP
	rig.step()
	require.True(t, rig.cpu.processorStopped)
	pcAfterHalt := rig.cpu.PC

	rig.step()
	require.Equal(t, pcAfterHalt, rig.cpu.PC)
}

func TestBaseJRUnconditionalTaken(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0x18, 0x02, 0x00, 0x00, 0x76}) // JR +2; NOP; NOP; HALT
	ns := rig.step()
	require.Equal(t, uint16(0x0004), rig.cpu.PC)
	require.Equal(t, float64(12), ns)
}

func TestBaseDJNZLoop(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0x10, 0xFE}) // DJNZ -2 (spins on itself)
	rig.cpu.Main.B = 0x03

	ns1 := rig.step()
	require.Equal(t, byte(0x02), rig.cpu.Main.B)
	require.Equal(t, uint16(0x0000), rig.cpu.PC)
	require.Equal(t, float64(13), ns1)

	rig.step()
	rig.step()
	require.Equal(t, byte(0x00), rig.cpu.Main.B)
	require.Equal(t, uint16(0x0002), rig.cpu.PC)
}

func TestBaseCallAndRet(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0xCD, 0x10, 0x00}) // CALL 0x0010
	rig.bus.mem[0x0010] = 0xC9                 // RET
	rig.cpu.SP = 0x8000

	rig.step() // CALL
	require.Equal(t, uint16(0x0010), rig.cpu.PC)
	require.Equal(t, uint16(0x7FFE), rig.cpu.SP)

	rig.step() // RET
	require.Equal(t, uint16(0x0003), rig.cpu.PC)
	require.Equal(t, uint16(0x8000), rig.cpu.SP)
}

func TestBasePushPop(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0xC5, 0xD1}) // PUSH BC; POP DE
	rig.cpu.SP = 0x8000
	rig.cpu.Main.SetBC(0x1234)

	rig.step()
	require.Equal(t, uint16(0x7FFE), rig.cpu.SP)

	rig.step()
	require.Equal(t, uint16(0x1234), rig.cpu.Main.DE())
	require.Equal(t, uint16(0x8000), rig.cpu.SP)
}

func TestBaseExDEHLNeverAffectedByPrefix(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0xDD, 0xEB}) // DD EX DE,HL — prefix has no effect
	rig.cpu.Main.SetDE(0x1111)
	rig.cpu.Main.SetHL(0x2222)

	ns := rig.step()

	require.Equal(t, uint16(0x2222), rig.cpu.Main.DE())
	require.Equal(t, uint16(0x1111), rig.cpu.Main.HL())
	require.Equal(t, float64(8), ns) // 4 wasted-prefix tax + EX DE,HL's own 4
}

func TestBaseWastedPrefixTaxesNOP(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0xDD, 0x00}) // DD NOP — prefix discarded, still costs 4

	ns := rig.step()

	require.Equal(t, float64(8), ns)
}

func TestBaseWastedPrefixTaxesJPnn(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0xDD, 0xC3, 0x34, 0x12}) // DD JP 0x1234

	ns := rig.step()

	require.Equal(t, uint16(0x1234), rig.cpu.PC)
	require.Equal(t, float64(14), ns)
}

func TestBaseLDRegImmTiming(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0x06, 0x42}) // LD B,0x42

	ns := rig.step()

	require.Equal(t, byte(0x42), rig.cpu.Main.B)
	require.Equal(t, float64(7), ns)
}

func TestBaseLDNNAWordAddressing(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0x32, 0x00, 0x50}) // LD (0x5000),A
	rig.cpu.Main.A = 0x77

	rig.step()

	require.Equal(t, byte(0x77), rig.bus.mem[0x5000])
}
