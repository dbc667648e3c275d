package executor

import (
	"time"
)

// Config configures the interpreter adapter.
type Config struct {
	// Interpreter is the path of the interpreter binary.
	Interpreter string `mapstructure:"interpreter" validate:"required"`
	// ExtraArgs are passed to every invocation before the command flags.
	ExtraArgs []string `mapstructure:"extra-args"`
	// Timeout bounds a single invocation, zero disables it.
	Timeout time.Duration `mapstructure:"timeout"`
	// StepCacheSize is the number of step proofs kept in memory.
	StepCacheSize uint `mapstructure:"step-cache-size" validate:"gt=0"`
	// OutputFile is the name of the file the task writes its output to,
	// relative to the task directory.
	OutputFile string `mapstructure:"output-file"`
}

func DefaultConfig() Config {
	return Config{
		Interpreter:   "wasm",
		Timeout:       10 * time.Minute,
		StepCacheSize: 256,
		OutputFile:    "blockchain.out",
	}
}
