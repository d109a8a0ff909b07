package z80

import (
	"bytes"
	"encoding/binary"
)

// state.go implements the hierarchical save-state contract of §6
// (GetState/LoadState), grounded on debug_snapshot.go's magic/version/
// binary.Write pattern. Unlike the teacher's MachineSnapshot, this state
// carries no memory image — the bus is host-owned — only the register file,
// interrupt state, line levels and clock. The pending line-access queue,
// which ExecuteCommit/ExecuteRollback's shadow does hold (§3, §4.7), is not
// serialized.

const (
	stateMagic   = "Z80S"
	stateVersion = uint32(1)
)

// GetState serializes every field Reset/ExecuteCommit would otherwise reset
// or roll back: both register banks, IX/IY/SP/PC/I/R/WZ, the interrupt
// mode/flip-flops, the EI-shield and HALT flags, and the four line levels.
func (c *CPU) GetState() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(stateMagic)
	_ = binary.Write(&buf, binary.LittleEndian, stateVersion)

	writeRegs := func(r Registers) {
		buf.WriteByte(r.A)
		buf.WriteByte(r.F)
		buf.WriteByte(r.B)
		buf.WriteByte(r.C)
		buf.WriteByte(r.D)
		buf.WriteByte(r.E)
		buf.WriteByte(r.H)
		buf.WriteByte(r.L)
	}
	writeRegs(c.Main)
	writeRegs(c.Alt)
	_ = binary.Write(&buf, binary.LittleEndian, c.IX)
	_ = binary.Write(&buf, binary.LittleEndian, c.IY)
	_ = binary.Write(&buf, binary.LittleEndian, c.SP)
	_ = binary.Write(&buf, binary.LittleEndian, c.PC)
	buf.WriteByte(c.I)
	buf.WriteByte(c.R)
	_ = binary.Write(&buf, binary.LittleEndian, c.WZ)

	_ = binary.Write(&buf, binary.LittleEndian, uint32(c.interruptMode))
	buf.WriteByte(boolByte(c.iff1))
	buf.WriteByte(boolByte(c.iff2))
	buf.WriteByte(boolByte(c.maskInterruptsNextOpcode))
	buf.WriteByte(boolByte(c.processorStopped))
	buf.WriteByte(boolByte(c.nmiPending))
	buf.WriteByte(boolByte(c.lines.reset))
	buf.WriteByte(boolByte(c.lines.busreq))
	buf.WriteByte(boolByte(c.lines.intLine))
	buf.WriteByte(boolByte(c.lines.nmi))
	buf.WriteByte(boolByte(c.lines.nmiArmed))
	_ = binary.Write(&buf, binary.LittleEndian, c.clock)

	return buf.Bytes(), nil
}

// LoadState restores a snapshot produced by GetState. It validates the
// magic/version header and length before mutating any field, so a bad
// snapshot never leaves the CPU half-restored.
func (c *CPU) LoadState(data []byte) error {
	if len(data) < len(stateMagic)+4 || string(data[:len(stateMagic)]) != stateMagic {
		return wrapf(ErrBadMagic, "LoadState")
	}
	r := bytes.NewReader(data[len(stateMagic):])
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return wrapf(ErrTruncatedState, "LoadState: version")
	}
	if version != stateVersion {
		return wrapf(ErrBadMagic, "LoadState: version %d", version)
	}

	readRegs := func() (Registers, error) {
		var reg Registers
		var raw [8]byte
		if _, err := r.Read(raw[:]); err != nil {
			return reg, err
		}
		reg.A, reg.F, reg.B, reg.C, reg.D, reg.E, reg.H, reg.L =
			raw[0], raw[1], raw[2], raw[3], raw[4], raw[5], raw[6], raw[7]
		return reg, nil
	}

	main, err := readRegs()
	if err != nil {
		return wrapf(ErrTruncatedState, "LoadState: main registers")
	}
	alt, err := readRegs()
	if err != nil {
		return wrapf(ErrTruncatedState, "LoadState: alt registers")
	}

	var ix, iy, sp, pc, wz uint16
	var i, ri byte
	for _, field := range []interface{}{&ix, &iy, &sp, &pc} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return wrapf(ErrTruncatedState, "LoadState: 16-bit register")
		}
	}
	var irBuf [2]byte
	if _, err := r.Read(irBuf[:]); err != nil {
		return wrapf(ErrTruncatedState, "LoadState: I/R")
	}
	i, ri = irBuf[0], irBuf[1]
	if err := binary.Read(r, binary.LittleEndian, &wz); err != nil {
		return wrapf(ErrTruncatedState, "LoadState: WZ")
	}

	var mode uint32
	if err := binary.Read(r, binary.LittleEndian, &mode); err != nil {
		return wrapf(ErrTruncatedState, "LoadState: interrupt mode")
	}

	flags := make([]byte, 10)
	if _, err := r.Read(flags); err != nil {
		return wrapf(ErrTruncatedState, "LoadState: flags")
	}

	var clock float64
	if err := binary.Read(r, binary.LittleEndian, &clock); err != nil {
		return wrapf(ErrTruncatedState, "LoadState: clock")
	}

	c.Main, c.Alt = main, alt
	c.IX, c.IY, c.SP, c.PC = ix, iy, sp, pc
	c.I, c.R = i, ri
	c.WZ = wz
	c.interruptMode = InterruptMode(mode)
	c.iff1 = flags[0] != 0
	c.iff2 = flags[1] != 0
	c.maskInterruptsNextOpcode = flags[2] != 0
	c.processorStopped = flags[3] != 0
	c.nmiPending = flags[4] != 0
	c.lines.reset = flags[5] != 0
	c.lines.busreq = flags[6] != 0
	c.lines.intLine = flags[7] != 0
	c.lines.nmi = flags[8] != 0
	c.lines.nmiArmed = flags[9] != 0
	c.clock = clock
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
