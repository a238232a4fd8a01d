package automaton

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sony/sonyflake"
)

// IDSource hands out state identifiers. Identifiers must be unique for the
// lifetime of the source, including across Clear.
type IDSource func() StateID

// idEpoch keeps sonyflake ids short.
var idEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// NewIDSource returns the default generator, backed by sonyflake. If the
// generator cannot be built or runs out of time bits, ids fall back to a
// process-local sequence.
func NewIDSource() IDSource {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: idEpoch,
		MachineID: func() (uint16, error) {
			return uint16(os.Getpid()), nil
		},
	})
	var fallback uint64
	return func() StateID {
		if sf != nil {
			if id, err := sf.NextID(); err == nil {
				return StateID(strconv.FormatUint(id, 36))
			}
		}
		fallback++
		return StateID(fmt.Sprintf("local-%d", fallback))
	}
}

// SequentialIDs returns a deterministic source producing prefix1, prefix2, …
func SequentialIDs(prefix string) IDSource {
	n := 0
	return func() StateID {
		n++
		return StateID(fmt.Sprintf("%s%d", prefix, n))
	}
}
