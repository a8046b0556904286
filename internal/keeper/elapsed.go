package keeper

import (
	"fmt"
	"time"
)

// FormatElapsed renders now-since as "{H}h {M}m" with whole hours and the
// remaining whole minutes, truncated. Seconds are dropped and a since that
// lies after now reads as zero.
func FormatElapsed(since, now time.Time) string {
	elapsed := now.Sub(since)
	if elapsed < 0 {
		elapsed = 0
	}
	total := int64(elapsed / time.Second)
	return fmt.Sprintf("%dh %dm", total/3600, (total%3600)/60)
}
