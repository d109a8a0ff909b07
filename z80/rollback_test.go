package z80

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecuteRollbackDiscardsUncommittedStep(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0x3C}) // INC A
	rig.cpu.Main.A = 0x01
	rig.cpu.ExecuteCommit()

	rig.cpu.ExecuteStep() // speculative, not committed

	require.Equal(t, byte(0x02), rig.cpu.Main.A)

	rig.cpu.ExecuteRollback()

	require.Equal(t, byte(0x01), rig.cpu.Main.A)
	require.Equal(t, uint16(0x0000), rig.cpu.PC)
}

func TestExecuteCommitMakesStatePermanent(t *testing.T) {
	rig := newTestRig()
	rig.load(0x0000, []byte{0x3C, 0x3C}) // INC A; INC A
	rig.cpu.Main.A = 0x00

	rig.cpu.ExecuteStep()
	rig.cpu.ExecuteCommit()
	require.Equal(t, byte(0x01), rig.cpu.Main.A)

	rig.cpu.ExecuteStep() // speculative second INC
	require.Equal(t, byte(0x02), rig.cpu.Main.A)
	rig.cpu.ExecuteRollback()

	require.Equal(t, byte(0x01), rig.cpu.Main.A) // back to the last commit, not power-on
}

func TestRollbackPreservesLineQueueAtLastCommit(t *testing.T) {
	// Per SPEC_FULL §8's rollback-preserves-queue scenario: a line-state
	// change enqueued after the last commit must vanish on rollback exactly
	// as any other post-commit mutation would.
	rig := newTestRig()
	rig.load(0x0000, []byte{0x00}) // NOP
	rig.cpu.ExecuteCommit()

	rig.cpu.SetLineState(LineINT, true, 1_000_000)
	require.True(t, rig.cpu.hasPendingLineAccess())

	rig.cpu.ExecuteRollback()

	require.False(t, rig.cpu.hasPendingLineAccess())
}

func TestGetStateLoadStateRoundTrip(t *testing.T) {
	rig := newTestRig()
	rig.cpu.Main.SetAF(0x1234)
	rig.cpu.Main.SetBC(0x5678)
	rig.cpu.Alt.SetHL(0x9ABC)
	rig.cpu.IX = 0x1111
	rig.cpu.IY = 0x2222
	rig.cpu.SP = 0x3333
	rig.cpu.PC = 0x4444
	rig.cpu.I = 0x01
	rig.cpu.R = 0x82
	rig.cpu.WZ = 0x5555
	rig.cpu.interruptMode = IM2
	rig.cpu.iff1 = true
	rig.cpu.iff2 = false
	rig.cpu.SetLineState(LineNMI, true, 0)
	rig.cpu.drainLineAccesses(0)

	data, err := rig.cpu.GetState()
	require.NoError(t, err)

	other := newTestRig().cpu
	require.NoError(t, other.LoadState(data))

	require.Equal(t, rig.cpu.Main.AF(), other.Main.AF())
	require.Equal(t, rig.cpu.Main.BC(), other.Main.BC())
	require.Equal(t, rig.cpu.Alt.HL(), other.Alt.HL())
	require.Equal(t, rig.cpu.IX, other.IX)
	require.Equal(t, rig.cpu.IY, other.IY)
	require.Equal(t, rig.cpu.SP, other.SP)
	require.Equal(t, rig.cpu.PC, other.PC)
	require.Equal(t, rig.cpu.I, other.I)
	require.Equal(t, rig.cpu.R, other.R)
	require.Equal(t, rig.cpu.WZ, other.WZ)
	require.Equal(t, rig.cpu.interruptMode, other.interruptMode)
	require.Equal(t, rig.cpu.iff1, other.iff1)
	require.Equal(t, rig.cpu.lines.nmi, other.lines.nmi)
	require.Equal(t, rig.cpu.lines.nmiArmed, other.lines.nmiArmed)
}

func TestLoadStateRejectsBadMagic(t *testing.T) {
	rig := newTestRig()
	err := rig.cpu.LoadState([]byte("not a snapshot at all"))
	require.Error(t, err)
}
