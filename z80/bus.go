package z80

import "sync"

// Bus is the abstract memory bus the core consumes, per §1 ("the bus
// interface itself is provided by the host; the core consumes a
// read/write capability") and the Bus Port contract in §4.3/§6. The host
// supplies an implementation; this package never implements one itself.
//
// transparent suppresses side effects (debugger peek/poke): the bus must
// not advance any device state, and the CPU must not update its CE-line
// probes, when transparent is true.
type Bus interface {
	ReadMemory(address uint16, transparent bool) (data byte, duration float64)
	WriteMemory(address uint16, data byte, transparent bool) (duration float64)
}

// CELine names the two chip-enable line positions the core asserts on each
// bus access, per §6 ("CE line names: RD, WR").
type CELine int

const (
	CELineRD CELine = iota
	CELineWR
)

// ceLineConfig records how one CE line is wired into the composite state
// word returned by CalculateCELineState: whether it participates at all,
// and which bit position it occupies. Grounded on Z80.h's
// ceLineMaskRD/ceLineMaskWR plus SetCELineOutput's (mapped, startBit) pair
// (SPEC_FULL §12).
type ceLineConfig struct {
	mapped   bool
	startBit uint
}

// ceLineState is the mutex-protected CE-line probe block from §5
// ("CE-line state probes ... Protected by a lightweight mutex
// (ceLineStateMutex)"). memoryAccessRD/WR record whether the CPU currently
// has a real (non-transparent) read/write in flight, so bus-topology
// calculators on foreign threads can compute downstream chip-select state
// concurrently with CPU execution.
type ceLineState struct {
	mu             sync.Mutex
	rd             ceLineConfig
	wr             ceLineConfig
	memoryAccessRD bool
	memoryAccessWR bool
}

// SetCELineOutput configures whether the given CE line participates in
// CalculateCELineState's output and which bit position it occupies there,
// per §6 / SPEC_FULL §12.
func (c *CPU) SetCELineOutput(line CELine, mapped bool, startBit uint) {
	c.ce.mu.Lock()
	defer c.ce.mu.Unlock()
	cfg := ceLineConfig{mapped: mapped, startBit: startBit}
	switch line {
	case CELineRD:
		c.ce.rd = cfg
	case CELineWR:
		c.ce.wr = cfg
	}
}

// beginAccess records that a real (non-transparent) memory access of the
// given kind is in flight, for CalculateCELineState probes from foreign
// threads. No-op for transparent accesses.
func (c *CPU) beginAccess(isWrite, transparent bool) {
	if transparent {
		return
	}
	c.ce.mu.Lock()
	if isWrite {
		c.ce.memoryAccessWR = true
	} else {
		c.ce.memoryAccessRD = true
	}
	c.ce.mu.Unlock()
}

func (c *CPU) endAccess(isWrite, transparent bool) {
	if transparent {
		return
	}
	c.ce.mu.Lock()
	if isWrite {
		c.ce.memoryAccessWR = false
	} else {
		c.ce.memoryAccessRD = false
	}
	c.ce.mu.Unlock()
}

// CalculateCELineState returns current with the RD/WR bits set according
// to the in-flight access, per §4.3/§6. Safe to call from any thread.
func (c *CPU) CalculateCELineState(current uint) uint {
	c.ce.mu.Lock()
	defer c.ce.mu.Unlock()
	return applyCELineBits(current, c.ce.rd, c.ce.memoryAccessRD, c.ce.wr, c.ce.memoryAccessWR)
}

// CalculateCELineStateTransparent is the debug-only sibling that never
// observes or mutates memoryAccessRD/WR (SPEC_FULL §12): it always reports
// both lines deasserted, since transparent accesses never flip the probes.
func (c *CPU) CalculateCELineStateTransparent(current uint) uint {
	c.ce.mu.Lock()
	defer c.ce.mu.Unlock()
	return applyCELineBits(current, c.ce.rd, false, c.ce.wr, false)
}

func applyCELineBits(current uint, rd ceLineConfig, rdActive bool, wr ceLineConfig, wrActive bool) uint {
	if rd.mapped {
		current = setBit(current, rd.startBit, rdActive)
	}
	if wr.mapped {
		current = setBit(current, wr.startBit, wrActive)
	}
	return current
}

func setBit(v uint, bit uint, on bool) uint {
	if on {
		return v | 1<<bit
	}
	return v &^ (1 << bit)
}

// SetBus hot-swaps the memory bus the core talks to. Z80.h's full
// AddReference/RemoveReference device-reference framework is out of scope
// per §1; this method covers the one case this core's own tests and a
// debugger need (SPEC_FULL §12).
func (c *CPU) SetBus(b Bus) {
	c.bus = b
}

// readByte performs one non-transparent memory read, toggling the RD
// CE-line probe around the call. Per §1's Non-goals ("cycle-exact bus
// timing within a single instruction"), the bus's own reported duration is
// not folded into the step's charged time — each opcode instead charges
// its fixed T-state count (tick, in cpu.go) as one indivisible unit. The
// bus duration return value exists for the host's own accounting (e.g. a
// wait-state-aware memory map) and is intentionally discarded here.
func (c *CPU) readByte(addr uint16) byte {
	c.beginAccess(false, false)
	data, _ := c.bus.ReadMemory(addr, false)
	c.endAccess(false, false)
	return data
}

func (c *CPU) writeByte(addr uint16, v byte) {
	c.beginAccess(true, false)
	c.bus.WriteMemory(addr, v, false)
	c.endAccess(true, false)
}

// ReadTransparent and WriteTransparent read/write without charging timing
// or toggling the CE-line probes, for debugger peek/poke and
// GetOpcodeInfo/GetRawData (§6).
func (c *CPU) ReadTransparent(addr uint16) byte {
	data, _ := c.bus.ReadMemory(addr, true)
	return data
}

func (c *CPU) WriteTransparent(addr uint16, v byte) {
	c.bus.WriteMemory(addr, v, true)
}
