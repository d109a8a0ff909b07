package z80

// opFunc is one opcode handler: it reads whatever operands it needs off the
// bus/registers, computes and writes back the result, updates flags, and
// ticks its own T-state count. Handlers are shared across the plain, DD and
// FD forms of an opcode by consulting c.prefix through the accessors below,
// per §9 Design Notes' decode-time-parameter recommendation — rather than
// the teacher's three near-identical opcode tables (base/DD/FD).
type opFunc func(c *CPU)

var baseTable [256]opFunc
var cbTable [256]opFunc
var edTable [256]opFunc

// dispatch routes one freshly fetched opcode byte to its handler, or into
// one of the three prefix paths, per §4.4's decode tables.
func (c *CPU) dispatch(opcode byte) {
	switch opcode {
	case 0xCB:
		c.execCB()
	case 0xED:
		c.execED()
	case 0xDD:
		c.execIndexPrefix(prefixIX)
	case 0xFD:
		c.execIndexPrefix(prefixIY)
	default:
		baseTable[opcode](c)
	}
}

// execCB handles a plain (non-indexed) CB-prefixed opcode: the suffix byte
// is a plain memory read with no extra refresh increment, per §4.4 step 2.
func (c *CPU) execCB() {
	opcode := c.fetchByte()
	cbTable[opcode](c)
}

// execED handles an ED-prefixed opcode: the suffix byte increments R (§4.4
// step 3), and an unmapped entry is NOP-equivalent at 8 T-states.
func (c *CPU) execED() {
	opcode := c.fetchByte()
	c.AddRefresh(1)
	if edTable[opcode] == nil {
		c.tick(8)
		return
	}
	edTable[opcode](c)
}

// execIndexPrefix handles one DD or FD prefix byte, per §4.4 steps 4-5: it
// sets the index override, then repeats decoding from the next byte.
// Duplicate prefix bytes are legal (the last one wins; each adds 4
// T-states); a prefix immediately followed by ED has no effect on the ED
// opcode (the wasted prefix still costs 4 T-states). The default branch
// charges that same 4 T-states for every other opcode reached under this
// prefix, whether or not the opcode's own semantics consult c.prefix — each
// DD/FD byte taxes whatever follows it, per SPEC_FULL §4.4/§4.5. The
// base-table timing helpers (ldTiming, aluRegTiming, ...) account only for
// what the opcode itself does under the prefix (e.g. the extra displacement
// fetch), not for the prefix byte that got it there.
func (c *CPU) execIndexPrefix(which indexPrefix) {
	c.prefix = which
	c.dispValid = false
	opcode := c.fetchOpcode()
	switch opcode {
	case 0xDD:
		c.tick(4)
		c.execIndexPrefix(prefixIX)
	case 0xFD:
		c.tick(4)
		c.execIndexPrefix(prefixIY)
	case 0xED:
		c.tick(4)
		c.prefix = prefixNone
		c.execED()
	case 0xCB:
		c.execIndexedCB()
	default:
		c.tick(4)
		baseTable[opcode](c)
	}
}

// execIndexedCB handles the DDCB/FDCB doubly-prefixed form: the displacement
// byte precedes the opcode byte (§4.4 step 5), and neither fetch increments
// R beyond what the DD/FD and CB prefix bytes already charged.
func (c *CPU) execIndexedCB() {
	disp := int8(c.fetchByte())
	c.dispValue = disp
	c.dispValid = true
	opcode := c.fetchByte()
	indexedCBTable[opcode](c)
}

// resolveHLAddr returns the effective address (HL) or, under a DD/FD
// prefix, IX+d/IY+d — fetching and caching the displacement byte the first
// time a memory operand is touched during the instruction in flight.
func (c *CPU) resolveHLAddr() uint16 {
	if c.prefix == prefixNone {
		return c.Main.HL()
	}
	if !c.dispValid {
		c.dispValue = int8(c.fetchByte())
		c.dispValid = true
	}
	base := c.IX
	if c.prefix == prefixIY {
		base = c.IY
	}
	return uint16(int32(base) + int32(c.dispValue))
}

// hlIndexed/setHLIndexed read and write the register HL/IX/IY references
// substitute for under a prefix, for the 16-bit opcodes that operate on the
// pair directly (ADD HL,rr / INC HL / EX (SP),HL / JP (HL) / LD SP,HL /
// PUSH HL / POP HL and their indexed forms).
func (c *CPU) hlIndexed() uint16 {
	switch c.prefix {
	case prefixIX:
		return c.IX
	case prefixIY:
		return c.IY
	default:
		return c.Main.HL()
	}
}

func (c *CPU) setHLIndexed(v uint16) {
	switch c.prefix {
	case prefixIX:
		c.IX = v
	case prefixIY:
		c.IY = v
	default:
		c.Main.SetHL(v)
	}
}

// readReg8/writeReg8 access the 3-bit register-code operand used throughout
// the base and CB opcode spaces (000=B,001=C,010=D,011=E,100=H,101=L,
// 110=(HL),111=A). Codes 4/5/6 morph to IXH/IXL/(IX+d) (or IY) under a
// prefix, per the undocumented DD/FD register forms (§9 Design Notes).
func (c *CPU) readReg8(code byte) byte {
	switch code {
	case 0:
		return c.Main.B
	case 1:
		return c.Main.C
	case 2:
		return c.Main.D
	case 3:
		return c.Main.E
	case 4:
		switch c.prefix {
		case prefixIX:
			return byte(c.IX >> 8)
		case prefixIY:
			return byte(c.IY >> 8)
		default:
			return c.Main.H
		}
	case 5:
		switch c.prefix {
		case prefixIX:
			return byte(c.IX)
		case prefixIY:
			return byte(c.IY)
		default:
			return c.Main.L
		}
	case 6:
		return c.readByte(c.resolveHLAddr())
	default:
		return c.Main.A
	}
}

func (c *CPU) writeReg8(code byte, v byte) {
	switch code {
	case 0:
		c.Main.B = v
	case 1:
		c.Main.C = v
	case 2:
		c.Main.D = v
	case 3:
		c.Main.E = v
	case 4:
		switch c.prefix {
		case prefixIX:
			c.IX = c.IX&0x00FF | uint16(v)<<8
		case prefixIY:
			c.IY = c.IY&0x00FF | uint16(v)<<8
		default:
			c.Main.H = v
		}
	case 5:
		switch c.prefix {
		case prefixIX:
			c.IX = c.IX&0xFF00 | uint16(v)
		case prefixIY:
			c.IY = c.IY&0xFF00 | uint16(v)
		default:
			c.Main.L = v
		}
	case 6:
		c.writeByte(c.resolveHLAddr(), v)
	default:
		c.Main.A = v
	}
}

// readReg8Plain/writeReg8Plain never substitute H/L for IXH/IXL: code 6
// still resolves to (IX+d)/(IY+d) under a prefix, but codes 4/5 are always
// the real H/L. This is the access pattern DDCB/FDCB's register-copy
// operand uses (§4.4 step 5): the doubly-prefixed rotate/shift/BIT/RES/SET
// opcodes have no IXH/IXL form, only a (IX+d)-with-register-echo form.
func (c *CPU) readReg8Plain(code byte) byte {
	switch code {
	case 0:
		return c.Main.B
	case 1:
		return c.Main.C
	case 2:
		return c.Main.D
	case 3:
		return c.Main.E
	case 4:
		return c.Main.H
	case 5:
		return c.Main.L
	case 6:
		return c.readByte(c.resolveHLAddr())
	default:
		return c.Main.A
	}
}

func (c *CPU) writeReg8Plain(code byte, v byte) {
	switch code {
	case 0:
		c.Main.B = v
	case 1:
		c.Main.C = v
	case 2:
		c.Main.D = v
	case 3:
		c.Main.E = v
	case 4:
		c.Main.H = v
	case 5:
		c.Main.L = v
	case 6:
		c.writeByte(c.resolveHLAddr(), v)
	default:
		c.Main.A = v
	}
}

// readReg16SP/writeReg16SP access the 2-bit "dd" register-pair operand
// (00=BC,01=DE,10=HL,11=SP), with HL morphed to IX/IY under a prefix.
func (c *CPU) readReg16SP(code byte) uint16 {
	switch code {
	case 0:
		return c.Main.BC()
	case 1:
		return c.Main.DE()
	case 2:
		return c.hlIndexed()
	default:
		return c.SP
	}
}

func (c *CPU) writeReg16SP(code byte, v uint16) {
	switch code {
	case 0:
		c.Main.SetBC(v)
	case 1:
		c.Main.SetDE(v)
	case 2:
		c.setHLIndexed(v)
	default:
		c.SP = v
	}
}

// readReg16AF/writeReg16AF access the "qq" register-pair operand PUSH/POP
// use (00=BC,01=DE,10=HL,11=AF), HL morphed to IX/IY under a prefix.
func (c *CPU) readReg16AF(code byte) uint16 {
	switch code {
	case 0:
		return c.Main.BC()
	case 1:
		return c.Main.DE()
	case 2:
		return c.hlIndexed()
	default:
		return c.Main.AF()
	}
}

func (c *CPU) writeReg16AF(code byte, v uint16) {
	switch code {
	case 0:
		c.Main.SetBC(v)
	case 1:
		c.Main.SetDE(v)
	case 2:
		c.setHLIndexed(v)
	default:
		c.Main.SetAF(v)
	}
}

// testCond evaluates the 3-bit condition-code operand (NZ,Z,NC,C,PO,PE,P,M)
// against the current flags.
func (c *CPU) testCond(code byte) bool {
	switch code {
	case 0:
		return c.Main.F&FlagZ == 0
	case 1:
		return c.Main.F&FlagZ != 0
	case 2:
		return c.Main.F&FlagC == 0
	case 3:
		return c.Main.F&FlagC != 0
	case 4:
		return c.Main.F&FlagPV == 0
	case 5:
		return c.Main.F&FlagPV != 0
	case 6:
		return c.Main.F&FlagS == 0
	default:
		return c.Main.F&FlagS != 0
	}
}
