package unittest

import (
	"sync"

	"github.com/rs/zerolog"
)

// LoggerHook records the level and message of every log event it sees.
type LoggerHook struct {
	mu       sync.Mutex
	messages []string
	levels   []zerolog.Level
}

func (h *LoggerHook) Run(_ *zerolog.Event, level zerolog.Level, msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
	h.levels = append(h.levels, level)
}

// Messages returns the recorded messages logged at or above the given level.
func (h *LoggerHook) Messages(min zerolog.Level) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for i, msg := range h.messages {
		if h.levels[i] >= min {
			out = append(out, msg)
		}
	}
	return out
}
