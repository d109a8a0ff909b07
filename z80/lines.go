package z80

import "sync"

// Line names one of the four external lines the core tracks, per §3
// ("Line state") and §6 ("Line ID table").
type Line int

const (
	LineRESET Line = iota
	LineBUSREQ
	LineINT
	LineNMI
	lineCount
)

// GetLineWidth reports the bit width of a line. Every line this core
// tracks is single-bit (SPEC_FULL §12).
func (c *CPU) GetLineWidth(Line) uint { return 1 }

// lineAccess is one entry in the time-ordered pending queue, per §3
// ("Pending line access queue") — a (targetLine, newValue, accessTime)
// triple plus the insertion sequence number used to break accessTime ties
// in FIFO order.
type lineAccess struct {
	line     Line
	value    bool
	time     float64
	sequence uint64
}

// lineController holds the four line levels, the pending queue, and the
// bookkeeping §5 describes for cross-thread access: a mutex-protected
// queue plus an unsynchronized fast-path flag a single-threaded scheduler
// may probe without locking.
type lineController struct {
	mu               sync.Mutex
	pending          []lineAccess
	nextSequence     uint64
	lineAccessPending bool

	reset, busreq, intLine, nmi bool

	// nmiArmed tracks whether NMI is currently deasserted, so the next
	// rising transition is recognised as an edge per §3 ("NMI is accepted
	// when line transitions to asserted and prior state was deasserted").
	nmiArmed bool

	// suspendWhenBusReleased / suspendUntilLineStateChangeReceived mirror
	// Z80.h's fields of the same name (SPEC_FULL §12): when true, the core
	// is blocked and UsesExecuteSuspend's caller should not poll until
	// SetLineState clears it.
	suspendWhenBusReleased           bool
	suspendUntilLineStateChangeReceived bool
}

func newLineController() *lineController {
	return &lineController{nmiArmed: true}
}

// clone returns a deep-enough copy for the rollback/commit shadow: the
// queue is a value-type slice (per §9, "a shallow copy suffices as entries
// are value types"), so a fresh slice copy is sufficient.
func (l *lineController) clone() lineController {
	cp := *l
	cp.pending = append([]lineAccess(nil), l.pending...)
	return cp
}

// SetLineState enqueues a line-state change at accessTime, called from any
// device thread per §6/§4.6. The queue remains sorted by accessTime
// ascending, ties broken by insertion order, per §3's invariant.
func (c *CPU) SetLineState(line Line, value bool, accessTime float64) {
	lc := &c.lines
	lc.mu.Lock()
	defer lc.mu.Unlock()

	seq := lc.nextSequence
	lc.nextSequence++
	entry := lineAccess{line: line, value: value, time: accessTime, sequence: seq}

	idx := len(lc.pending)
	for idx > 0 && (lc.pending[idx-1].time > accessTime) {
		idx--
	}
	lc.pending = append(lc.pending, lineAccess{})
	copy(lc.pending[idx+1:], lc.pending[idx:])
	lc.pending[idx] = entry

	lc.lineAccessPending = true
	// While suspended for BUSREQ, only a BUSREQ release wakes the core.
	if !lc.suspendWhenBusReleased || (line == LineBUSREQ && !value) {
		lc.suspendUntilLineStateChangeReceived = false
	}
}

// hasPendingLineAccess is the lock-free fast-path probe described in §5
// ("A volatile flag lineAccessPending lets the scheduler thread probe
// without locking"). Go has no volatile keyword; the field is read here
// without a lock as a best-effort fast path and the authoritative drain
// below always takes the lock.
func (c *CPU) hasPendingLineAccess() bool {
	return c.lines.lineAccessPending
}

// drainLineAccesses applies every queued entry whose accessTime is at most
// currentTime, in ascending accessTime / insertion order, per §4.6 and §5's
// ordering guarantees. Entries with a later accessTime are left queued.
func (c *CPU) drainLineAccesses(currentTime float64) {
	lc := &c.lines
	lc.mu.Lock()
	due := 0
	for due < len(lc.pending) && lc.pending[due].time <= currentTime {
		due++
	}
	ready := append([]lineAccess(nil), lc.pending[:due]...)
	lc.pending = lc.pending[due:]
	lc.lineAccessPending = len(lc.pending) > 0
	lc.mu.Unlock()

	for _, ev := range ready {
		c.ApplyLineStateChange(ev.line, ev.value)
	}
}

// ApplyLineStateChange mutates the live line level and any immediate
// consequence (NMI edge arming) for one dequeued event. Exported so a host
// that has already serialized timing outside the pending queue can apply a
// change directly, per §6's line-function contract.
func (c *CPU) ApplyLineStateChange(line Line, value bool) {
	lc := &c.lines
	switch line {
	case LineRESET:
		lc.reset = value
	case LineBUSREQ:
		lc.busreq = value
		if !value {
			lc.suspendWhenBusReleased = false
		}
	case LineINT:
		lc.intLine = value
	case LineNMI:
		if value && lc.nmiArmed {
			c.nmiPending = true
		}
		lc.nmiArmed = !value
		lc.nmi = value
	}
}
