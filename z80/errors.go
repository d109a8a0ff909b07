package z80

import "github.com/pkg/errors"

// Sentinel errors the save-state path returns, wrapped with
// github.com/pkg/errors so callers get a stack trace alongside the cause.
// The teacher has no error-returning construction path of its own (cpu_z80.go's
// NewCPU_Z80 never fails); its sibling parsers report failure with plain
// errors.New/fmt.Errorf (ahx_parser.go), which this generalizes to a single
// wrap helper backed by an out-of-pack library rather than the standard one.
var (
	// ErrBadMagic is returned by LoadState when the snapshot doesn't start
	// with the expected magic/version header.
	ErrBadMagic = errors.New("z80: snapshot has an unrecognised magic or version")

	// ErrTruncatedState is returned by LoadState when the snapshot ends
	// before every field has been read.
	ErrTruncatedState = errors.New("z80: snapshot is truncated")
)

func wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
