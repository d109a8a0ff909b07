package z80

// exec_cb.go builds the plain (non-indexed) CB-prefixed table: rotate/shift
// (0x00-0x3F), BIT (0x40-0x7F), RES (0x80-0xBF) and SET (0xC0-0xFF), each
// grouped by the 3-bit register operand. sll (opcode group 6, 0x30-0x37) is
// the undocumented shift-left-and-set-bit-0 form.

func init() {
	initCBShift()
	initCBBit()
	initCBResSet()
}

// rlAdapter/rrAdapter close over the CPU's carry flag for RL/RR, which the
// other six shift ops don't need.
func rlAdapter(c *CPU, v byte) (byte, bool) { return rl(v, c.Main.F&FlagC != 0) }
func rrAdapter(c *CPU, v byte) (byte, bool) { return rr(v, c.Main.F&FlagC != 0) }

func initCBShift() {
	for reg := byte(0); reg < 8; reg++ {
		r := reg
		cbTable[0x00|r] = shiftHandler(r, rlc)
		cbTable[0x08|r] = shiftHandler(r, rrc)
		cbTable[0x10|r] = carryShiftHandler(r, rlAdapter)
		cbTable[0x18|r] = carryShiftHandler(r, rrAdapter)
		cbTable[0x20|r] = shiftHandler(r, sla)
		cbTable[0x28|r] = shiftHandler(r, sra)
		cbTable[0x30|r] = shiftHandler(r, sll)
		cbTable[0x38|r] = shiftHandler(r, srl)
	}
}

func shiftHandler(reg byte, op func(byte) (byte, bool)) opFunc {
	return func(c *CPU) {
		res, carry := op(c.readReg8(reg))
		c.writeReg8(reg, res)
		c.Main.F = rotateShiftFlags(res, carry)
		c.tick(cbTiming(reg))
	}
}

func carryShiftHandler(reg byte, op func(*CPU, byte) (byte, bool)) opFunc {
	return func(c *CPU) {
		res, carry := op(c, c.readReg8(reg))
		c.writeReg8(reg, res)
		c.Main.F = rotateShiftFlags(res, carry)
		c.tick(cbTiming(reg))
	}
}

func cbTiming(reg byte) int {
	if reg == 6 {
		return 15
	}
	return 8
}

func initCBBit() {
	for bit := byte(0); bit < 8; bit++ {
		for reg := byte(0); reg < 8; reg++ {
			b, r := bit, reg
			cbTable[0x40|b<<3|r] = func(c *CPU) {
				v := c.readReg8(r)
				xy := v
				if r == 6 {
					xy = byte(c.WZ >> 8)
				}
				c.Main.F = bitFlags(c.Main.F, v, uint(b), xy)
				c.tick(cbBitTiming(r))
			}
		}
	}
}

func cbBitTiming(reg byte) int {
	if reg == 6 {
		return 12
	}
	return 8
}

func initCBResSet() {
	for bit := byte(0); bit < 8; bit++ {
		for reg := byte(0); reg < 8; reg++ {
			b, r := bit, reg
			cbTable[0x80|b<<3|r] = func(c *CPU) {
				v := c.readReg8(r) &^ (1 << b)
				c.writeReg8(r, v)
				c.tick(cbTiming(r))
			}
			cbTable[0xC0|b<<3|r] = func(c *CPU) {
				v := c.readReg8(r) | 1<<b
				c.writeReg8(r, v)
				c.tick(cbTiming(r))
			}
		}
	}
}
