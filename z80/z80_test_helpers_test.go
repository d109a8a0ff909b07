package z80

import "github.com/stretchr/testify/require"

// testBus is a flat 64K RAM implementation of Bus, grounded on the
// teacher's cpu_z80_test_helpers_test.go z80TestBus but trimmed to the
// read/write-only surface this core's Bus interface actually needs.
type testBus struct {
	mem [0x10000]byte
}

func (b *testBus) ReadMemory(address uint16, transparent bool) (byte, float64) {
	return b.mem[address], 0
}

func (b *testBus) WriteMemory(address uint16, data byte, transparent bool) float64 {
	b.mem[address] = data
	return 0
}

// testRig bundles a CPU and its backing bus, grounded on the teacher's
// cpuZ80TestRig helper.
type testRig struct {
	bus *testBus
	cpu *CPU
}

func newTestRig() *testRig {
	bus := &testBus{}
	cpu, err := NewCPU(Config{Bus: bus})
	if err != nil {
		panic(err)
	}
	return &testRig{bus: bus, cpu: cpu}
}

// load copies code into the bus starting at addr and points PC at it.
func (r *testRig) load(addr uint16, code []byte) {
	copy(r.bus.mem[addr:], code)
	r.cpu.PC = addr
}

// step runs exactly one ExecuteStep and commits it, returning the reported
// duration in nanoseconds (== T-states, at the default 1GHz clock).
func (r *testRig) step() float64 {
	ns := r.cpu.ExecuteStep()
	r.cpu.ExecuteCommit()
	return ns
}

func requireFlags(t require.TestingT, got byte, want byte) {
	require.Equal(t, want, got, "flags F=%08b, want %08b", got, want)
}
