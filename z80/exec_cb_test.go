package z80

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCBRLCRegister(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0xCB, 0x00}) // RLC B
	rig.cpu.Main.B = 0x81

	ns := rig.step()

	require.Equal(t, byte(0x03), rig.cpu.Main.B)
	require.NotZero(t, rig.cpu.Main.F&FlagC)
	require.Equal(t, float64(8), ns)
}

func TestCBRLCMemoryTiming(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0xCB, 0x06}) // RLC (HL)
	rig.cpu.Main.SetHL(0x4000)
	rig.bus.mem[0x4000] = 0x01

	ns := rig.step()

	require.Equal(t, byte(0x02), rig.bus.mem[0x4000])
	require.Equal(t, float64(15), ns)
}

func TestCBBitZeroFlag(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0xCB, 0x40}) // BIT 0,B
	rig.cpu.Main.B = 0xFE

	rig.step()

	require.NotZero(t, rig.cpu.Main.F&FlagZ)
	require.NotZero(t, rig.cpu.Main.F&FlagH)
}

func TestCBBitSetClearsZero(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0xCB, 0x47}) // BIT 0,A
	rig.cpu.Main.A = 0x01

	rig.step()

	require.Zero(t, rig.cpu.Main.F&FlagZ)
}

func TestCBResAndSet(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0xCB, 0x87, 0xCB, 0xC7}) // RES 0,A; SET 0,A
	rig.cpu.Main.A = 0xFF

	rig.step()
	require.Equal(t, byte(0xFE), rig.cpu.Main.A)

	rig.step()
	require.Equal(t, byte(0xFF), rig.cpu.Main.A)
}

func TestCBDoesNotAddExtraRefresh(t *testing.T) {
	// Per §4.4, the CB suffix byte does not get its own refresh increment
	// beyond the one charged for fetching 0xCB itself.
	rig := newTestRig()
	rig.load(0x0000, []byte{0xCB, 0x00}) // RLC B
	rig.cpu.R = 0x00

	rig.step()

	require.Equal(t, byte(1), rig.cpu.R)
}
