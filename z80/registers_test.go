package z80

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterFileWidthCheckedAccessors(t *testing.T) {
	var rf RegisterFile
	rf.Set8(RegA, 0x42)
	require.Equal(t, byte(0x42), rf.Get8(RegA))
	require.Equal(t, 8, RegA.Width())
	require.Equal(t, 16, RegBC.Width())

	rf.Set16(RegBC, 0x1234)
	require.Equal(t, byte(0x12), rf.Get8(RegB))
	require.Equal(t, byte(0x34), rf.Get8(RegC))
}

func TestRegisterFileSet8PreservesRBit7(t *testing.T) {
	var rf RegisterFile
	rf.R = 0x80
	rf.Set8(RegR, 0x7F)
	require.Equal(t, byte(0xFF), rf.R)

	rf.R = 0x00
	rf.Set8(RegR, 0xFF)
	require.Equal(t, byte(0x7F), rf.R)
}

func TestRegisterFileAddRefreshWrapsWithoutTouchingBit7(t *testing.T) {
	var rf RegisterFile
	rf.R = 0x80 | 0x7E
	rf.AddRefresh(3)
	require.Equal(t, byte(0x80|0x01), rf.R)
}

func TestRegisterFileExAFAndExx(t *testing.T) {
	var rf RegisterFile
	rf.Main.SetAF(0x1234)
	rf.Alt.SetAF(0x5678)
	rf.ExAF()
	require.Equal(t, uint16(0x5678), rf.Main.AF())
	require.Equal(t, uint16(0x1234), rf.Alt.AF())

	rf.Main.SetBC(0x0102)
	rf.Main.SetDE(0x0304)
	rf.Main.SetHL(0x0506)
	rf.Alt.SetBC(0x1112)
	rf.Alt.SetDE(0x1314)
	rf.Alt.SetHL(0x1516)
	rf.Exx()
	require.Equal(t, uint16(0x1112), rf.Main.BC())
	require.Equal(t, uint16(0x1314), rf.Main.DE())
	require.Equal(t, uint16(0x1516), rf.Main.HL())
}

func TestRegisterFileResetValues(t *testing.T) {
	rf := RegisterFile{I: 0xAB, R: 0x55}
	rf.resetValues()
	require.Equal(t, uint16(0xFFFF), rf.SP)
	require.Equal(t, byte(0), rf.I)
	require.Equal(t, byte(0), rf.R)
}
