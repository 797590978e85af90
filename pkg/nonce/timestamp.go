package nonce

import (
	"errors"
	"fmt"
	"time"
)

// MaxTimestamp is the largest second-since-epoch value this module will
// accept: 2^53-1, the largest integer a JavaScript double can represent
// exactly. Delegation and invocation payloads cross into JSON-adjacent
// tooling in practice, so nbf/exp are kept within that range rather than
// the full int64 space.
const MaxTimestamp int64 = (1 << 53) - 1

// ErrTimestampOutOfRange is returned by NewTimestamp when the value falls
// outside [0, MaxTimestamp].
var ErrTimestampOutOfRange = errors.New("nonce: timestamp exceeds 2^53-1 or is negative")

// Timestamp is a Unix second count bounded to the JS-safe integer range.
type Timestamp int64

// NewTimestamp validates and wraps a raw second count.
func NewTimestamp(seconds int64) (Timestamp, error) {
	if seconds < 0 || seconds > MaxTimestamp {
		return 0, fmt.Errorf("%w: %d", ErrTimestampOutOfRange, seconds)
	}
	return Timestamp(seconds), nil
}

// FromTime truncates t to whole seconds and validates the result.
func FromTime(t time.Time) (Timestamp, error) {
	return NewTimestamp(t.Unix())
}

// Time converts back to time.Time (UTC, second precision).
func (ts Timestamp) Time() time.Time {
	return time.Unix(int64(ts), 0).UTC()
}

// Before reports whether ts is strictly earlier than other.
func (ts Timestamp) Before(other Timestamp) bool { return ts < other }

// After reports whether ts is strictly later than other.
func (ts Timestamp) After(other Timestamp) bool { return ts > other }
