package domain

import "errors"

// ErrAlreadyCapturing is returned when a hotkey rebind is requested while
// another capture is in progress.
var ErrAlreadyCapturing = errors.New("already capturing a hotkey")

// ErrUnknownSlot is returned when an operation names a slot the engine does
// not own.
var ErrUnknownSlot = errors.New("unknown slot")

// ErrIntervalOutOfRange is returned when an interval falls outside
// [MinInterval, MaxInterval].
var ErrIntervalOutOfRange = errors.New("interval out of range")

// ErrNoVersionTag is returned when the release feed response carries no
// version tag.
var ErrNoVersionTag = errors.New("no version tag in release feed response")

// ErrChecksumUnavailable is returned when the checksum resource for a
// release does not exist. The update pipeline fails closed on it.
var ErrChecksumUnavailable = errors.New("checksum resource not found")

// ErrChecksumMalformed is returned when the checksum resource exists but is
// not exactly 64 lowercase hexadecimal characters.
var ErrChecksumMalformed = errors.New("malformed checksum")

// ErrChecksumMismatch is returned when the downloaded artifact does not
// hash to the expected checksum. It is always surfaced and always aborts.
var ErrChecksumMismatch = errors.New("checksum verification failed")

const (
	// MinInterval is the smallest accepted actuation interval in seconds.
	// The floor keeps worker loops from busy-spinning.
	MinInterval = 0.01
	// MaxInterval is the largest accepted actuation interval in seconds.
	MaxInterval = 60.0
)

// ValidateInterval checks an interval in seconds against the accepted
// bounds. It never mutates anything; callers keep their prior value on error.
func ValidateInterval(seconds float64) error {
	if seconds < MinInterval || seconds > MaxInterval {
		return ErrIntervalOutOfRange
	}
	return nil
}
