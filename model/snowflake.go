package model

import (
	"time"

	"github.com/pkg/errors"
)

// Epoch is the platform epoch (2015-01-01T00:00:00Z) in Unix milliseconds.
// Snowflake IDs carry the milliseconds since this epoch in their top bits.
const Epoch = 1420070400000

const timestampLayout = "2006-01-02 15:04:05"

// ToSnowflake converts a "2006-01-02 15:04:05" UTC timestamp into the
// platform's time-based identifier: (ms - epoch) << 22. The result can be
// used as a min_id/max_id search bound.
func ToSnowflake(s string) (uint64, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return 0, errors.Wrapf(err, "parse timestamp %q", s)
	}

	ms := t.UnixMilli()
	if ms < Epoch {
		return 0, errors.Errorf("timestamp %q is before the platform epoch", s)
	}

	return uint64(ms-Epoch) << 22, nil
}
