package reactor

import (
	"github.com/ethereum/go-ethereum/common"
)

// Config configures the event reactor.
type Config struct {
	// Me is the address of the account this process answers challenges for.
	Me common.Address `mapstructure:"-" validate:"required"`
	// Workers is the number of challenges handled concurrently.
	Workers uint `mapstructure:"workers" validate:"gt=0"`
	// FinishedChallenges is the number of finished challenge ids remembered, so
	// that replayed events of a finished challenge are not answered again.
	FinishedChallenges uint `mapstructure:"finished-challenges" validate:"gt=0"`
}

func DefaultConfig() Config {
	return Config{
		Workers:            16,
		FinishedChallenges: 4096,
	}
}
