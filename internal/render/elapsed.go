package render

import (
	"strconv"
	"time"
)

// FormatElapsed renders the time since t in the coarsest unit that keeps the
// value at least 1: "Ns", "Nm", "Nh" or "Nd", truncating.
func FormatElapsed(t, now time.Time) string {
	return FormatSeconds(int64(now.Sub(t) / time.Second))
}

// FormatSeconds formats an elapsed number of whole seconds.
func FormatSeconds(e int64) string {
	if e < 0 {
		e = 0
	}
	switch {
	case e < 60:
		return strconv.FormatInt(e, 10) + "s"
	case e < 3600:
		return strconv.FormatInt(e/60, 10) + "m"
	case e < 86400:
		return strconv.FormatInt(e/3600, 10) + "h"
	default:
		return strconv.FormatInt(e/86400, 10) + "d"
	}
}
