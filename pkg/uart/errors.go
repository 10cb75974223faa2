package uart

import (
	"errors"
)

var (
	// ErrOverflow indicates a bit was dropped because the destination queue is full.
	ErrOverflow = errors.New("buffer overflow")
	// ErrUnderrun indicates a queue ran out of bits in the middle of a frame.
	// The frame is abandoned and the device returns to Idle.
	ErrUnderrun = errors.New("buffer underrun")
	// ErrFraming indicates a start or stop bit was not found where expected.
	// The receive queue is discarded and the device returns to Idle.
	ErrFraming = errors.New("framing error")
	// ErrNotConnected indicates a bit was sent by a device without a peer.
	ErrNotConnected = errors.New("not connected")
	// ErrInvalidConfig indicates a device configuration can't be used.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrBitCount indicates a bit sequence isn't byte aligned.
	ErrBitCount = errors.New("bit count must be a multiple of 8")
)

var knownErrors = []error{ErrOverflow, ErrUnderrun, ErrFraming, ErrNotConnected}

// ErrorFromString maps the message of a line error back to its sentinel,
// other messages become new errors.
func ErrorFromString(msg string) error {
	for _, err := range knownErrors {
		if err.Error() == msg {
			return err
		}
	}
	return errors.New(msg)
}
