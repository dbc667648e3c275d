package logging

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/onflow/dispute-client/model/dispute"
)

// New returns a logger writing JSON lines to w at the given level.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func ChallengeIDs(ids []dispute.ChallengeID) []string {
	ss := make([]string, 0, len(ids))
	for _, id := range ids {
		ss = append(ss, hex.EncodeToString(id[:]))
	}
	return ss
}
