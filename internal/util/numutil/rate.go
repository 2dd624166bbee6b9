package numutil

import "time"

// PerSecond returns how many of n operations run per second when they took
// elapsed in total, formatted with IntWithCommas.
func PerSecond(n int, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "-"
	}
	return IntWithCommas(int64(float64(n) / elapsed.Seconds()))
}
