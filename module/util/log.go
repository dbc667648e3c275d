package util

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogProgressFunc adds to the progress. It can be called concurrently.
type LogProgressFunc func(add uint64)

// LogProgress returns a function that accumulates progress towards total and
// logs a line each time another tenth of the total is reached.
func LogProgress(log zerolog.Logger, message string, total uint64) LogProgressFunc {
	start := time.Now()
	var mu sync.Mutex
	var current, lastTick uint64

	logLine := func() {
		percentage := float64(100)
		if total > 0 {
			percentage = float64(current) / float64(total) * 100
		}
		log.Info().
			Uint64("current", current).
			Uint64("total", total).
			Str("elapsed", time.Since(start).Round(time.Second).String()).
			Msgf("%s progress %.1f%%", message, percentage)
	}

	mu.Lock()
	logLine()
	mu.Unlock()

	return func(add uint64) {
		mu.Lock()
		defer mu.Unlock()

		current += add
		if current > total {
			current = total
		}
		tick := uint64(10)
		if total > 0 {
			tick = current * 10 / total
		}
		if tick > lastTick {
			lastTick = tick
			logLine()
		}
	}
}
