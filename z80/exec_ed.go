package z80

// exec_ed.go builds the ED-prefixed table. Port I/O (IN r,(C)/OUT (C),r and
// the INI/IND/OUTI/OUTD/INIR/INDR/OTIR/OTDR family) is out of scope (§1
// Non-goals: "no port-based I/O instruction semantics") and is deliberately
// left unmapped, falling through to execED's own NOP-equivalent-at-8-T-states
// handling of unmapped entries (§4.4) rather than a separate stub per entry.
//
// ED opcodes are never affected by a preceding DD/FD prefix — execIndexPrefix
// resets c.prefix to prefixNone before reaching here — so every handler below
// addresses HL/BC/DE/SP directly rather than through the prefix-aware
// accessors exec_base.go's shared handlers use.

func init() {
	edTable[0x44] = opNEG
	edTable[0x4C] = opNEG
	edTable[0x54] = opNEG
	edTable[0x5C] = opNEG
	edTable[0x64] = opNEG
	edTable[0x6C] = opNEG
	edTable[0x74] = opNEG
	edTable[0x7C] = opNEG

	edTable[0x45] = opRETN
	edTable[0x55] = opRETN
	edTable[0x65] = opRETN
	edTable[0x75] = opRETN
	edTable[0x4D] = opRETI
	edTable[0x5D] = opRETI
	edTable[0x6D] = opRETI
	edTable[0x7D] = opRETI

	edTable[0x46] = imHandler(IM0)
	edTable[0x4E] = imHandler(IM0)
	edTable[0x66] = imHandler(IM0)
	edTable[0x6E] = imHandler(IM0)
	edTable[0x56] = imHandler(IM1)
	edTable[0x76] = imHandler(IM1)
	edTable[0x5E] = imHandler(IM2)
	edTable[0x7E] = imHandler(IM2)

	edTable[0x47] = func(c *CPU) { c.I = c.Main.A; c.tick(9) }
	edTable[0x4F] = func(c *CPU) { c.Set8(RegR, c.Main.A); c.tick(9) }
	edTable[0x57] = func(c *CPU) { c.Main.A = c.I; c.setLDAIRFlags(c.I); c.tick(9) }
	edTable[0x5F] = func(c *CPU) { c.Main.A = c.R; c.setLDAIRFlags(c.R); c.tick(9) }

	edTable[0x67] = func(c *CPU) { // RRD
		hl := c.readByte(c.Main.HL())
		newHL, newA := c.rrdResult(hl)
		c.writeByte(c.Main.HL(), newHL)
		c.Main.A = newA
		c.WZ = c.Main.HL() + 1
		c.updateAAfterRotateDigit()
		c.tick(18)
	}
	edTable[0x6F] = func(c *CPU) { // RLD
		hl := c.readByte(c.Main.HL())
		newHL, newA := c.rldResult(hl)
		c.writeByte(c.Main.HL(), newHL)
		c.Main.A = newA
		c.WZ = c.Main.HL() + 1
		c.updateAAfterRotateDigit()
		c.tick(18)
	}

	initEDAdcSbc16()
	initEDLdMem16()
	initEDBlock()
}

func opNEG(c *CPU) {
	a := c.Main.A
	res, f := subFlags(0, a, 0, false)
	c.Main.A, c.Main.F = res, f
	c.tick(8)
}

func opRETN(c *CPU) {
	c.PC = c.popWord()
	c.WZ = c.PC
	c.iff1 = c.iff2
	c.tick(14)
}

func opRETI(c *CPU) {
	c.PC = c.popWord()
	c.WZ = c.PC
	c.iff1 = c.iff2
	c.tick(14)
}

func imHandler(mode InterruptMode) opFunc {
	return func(c *CPU) {
		c.interruptMode = mode
		c.tick(8)
	}
}

// setLDAIRFlags implements LD A,I / LD A,R's flag contract: S/Z from the
// loaded value, H=0, N=0, P/V=IFF2 (a live interrupt-enable snapshot, not a
// parity check — the one ED load where P/V means something else), C
// preserved, X/Y mirror the loaded value.
func (c *CPU) setLDAIRFlags(v byte) {
	f := c.Main.F & FlagC
	f = flagSet(f, FlagZ, v == 0)
	f = flagSet(f, FlagS, v&0x80 != 0)
	f = flagSet(f, FlagPV, c.iff2)
	f |= v & (FlagX | FlagY)
	c.Main.F = f
}

func initEDAdcSbc16() {
	pairs := [4]func(*CPU) uint16{
		func(c *CPU) uint16 { return c.Main.BC() },
		func(c *CPU) uint16 { return c.Main.DE() },
		func(c *CPU) uint16 { return c.Main.HL() },
		func(c *CPU) uint16 { return c.SP },
	}
	for i, get := range pairs {
		g := get
		edTable[0x4A|byte(i)<<4] = func(c *CPU) { // ADC HL,rr
			c.WZ = c.Main.HL() + 1
			c.Main.SetHL(c.adc16(c.Main.HL(), g(c)))
			c.tick(15)
		}
		edTable[0x42|byte(i)<<4] = func(c *CPU) { // SBC HL,rr
			c.WZ = c.Main.HL() + 1
			c.Main.SetHL(c.sbc16(c.Main.HL(), g(c)))
			c.tick(15)
		}
	}
}

func initEDLdMem16() {
	getSet := [4]struct {
		get func(*CPU) uint16
		set func(*CPU, uint16)
	}{
		{func(c *CPU) uint16 { return c.Main.BC() }, func(c *CPU, v uint16) { c.Main.SetBC(v) }},
		{func(c *CPU) uint16 { return c.Main.DE() }, func(c *CPU, v uint16) { c.Main.SetDE(v) }},
		{func(c *CPU) uint16 { return c.Main.HL() }, func(c *CPU, v uint16) { c.Main.SetHL(v) }},
		{func(c *CPU) uint16 { return c.SP }, func(c *CPU, v uint16) { c.SP = v }},
	}
	for i, rw := range getSet {
		get, set := rw.get, rw.set
		edTable[0x43|byte(i)<<4] = func(c *CPU) { // LD (nn),rr
			addr := c.fetchWord()
			v := get(c)
			c.writeByte(addr, byte(v))
			c.writeByte(addr+1, byte(v>>8))
			c.WZ = addr + 1
			c.tick(20)
		}
		edTable[0x4B|byte(i)<<4] = func(c *CPU) { // LD rr,(nn)
			addr := c.fetchWord()
			lo := c.readByte(addr)
			hi := c.readByte(addr + 1)
			set(c, uint16(hi)<<8|uint16(lo))
			c.WZ = addr + 1
			c.tick(20)
		}
	}
}

func initEDBlock() {
	edTable[0xA0] = func(c *CPU) { c.blockLD(1, false) }
	edTable[0xA8] = func(c *CPU) { c.blockLD(-1, false) }
	edTable[0xB0] = func(c *CPU) { c.blockLD(1, true) }
	edTable[0xB8] = func(c *CPU) { c.blockLD(-1, true) }
	edTable[0xA1] = func(c *CPU) { c.blockCP(1, false) }
	edTable[0xA9] = func(c *CPU) { c.blockCP(-1, false) }
	edTable[0xB1] = func(c *CPU) { c.blockCP(1, true) }
	edTable[0xB9] = func(c *CPU) { c.blockCP(-1, true) }
}

// blockLD implements LDI/LDD/LDIR/LDDR: copy (HL) to (DE), step both by
// dir, decrement BC, repeat while BC != 0 (repeat true) and update the
// undocumented X/Y flags from A+transferred-byte per §4.2.
func (c *CPU) blockLD(dir int16, repeat bool) {
	v := c.readByte(c.Main.HL())
	c.writeByte(c.Main.DE(), v)
	c.Main.SetHL(uint16(int32(c.Main.HL()) + int32(dir)))
	c.Main.SetDE(uint16(int32(c.Main.DE()) + int32(dir)))
	bc := c.Main.BC() - 1
	c.Main.SetBC(bc)

	n := c.Main.A + v
	f := c.Main.F & (FlagS | FlagZ | FlagC)
	f = flagSet(f, FlagPV, bc != 0)
	f = flagSet(f, FlagY, n&0x02 != 0)
	f = flagSet(f, FlagX, n&0x08 != 0)
	c.Main.F = f

	if repeat && bc != 0 {
		c.PC -= 2
		c.WZ = c.PC + 1
		c.tick(21)
		return
	}
	c.tick(16)
}

// blockCP implements CPI/CPD/CPIR/CPDR: compare A against (HL), step HL by
// dir, decrement BC, repeat while BC != 0 and the comparison didn't match.
func (c *CPU) blockCP(dir int16, repeat bool) {
	v := c.readByte(c.Main.HL())
	a := c.Main.A
	diff := a - v
	halfBorrow := int(a&0x0F)-int(v&0x0F) < 0
	c.Main.SetHL(uint16(int32(c.Main.HL()) + int32(dir)))
	bc := c.Main.BC() - 1
	c.Main.SetBC(bc)

	n := diff
	if halfBorrow {
		n--
	}
	f := c.Main.F&FlagC | FlagN
	f = flagSet(f, FlagZ, diff == 0)
	f = flagSet(f, FlagS, diff&0x80 != 0)
	f = flagSet(f, FlagH, halfBorrow)
	f = flagSet(f, FlagPV, bc != 0)
	f = flagSet(f, FlagY, n&0x02 != 0)
	f = flagSet(f, FlagX, n&0x08 != 0)
	c.Main.F = f

	c.WZ += uint16(dir)

	if repeat && bc != 0 && diff != 0 {
		c.PC -= 2
		c.WZ = c.PC + 1
		c.tick(21)
		return
	}
	c.tick(16)
}
