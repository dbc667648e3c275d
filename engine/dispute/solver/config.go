package solver

// Config configures the task orchestrator.
type Config struct {
	// WorkDir holds one directory per solved task.
	WorkDir string `mapstructure:"work-dir" validate:"required"`
	// InputFile is the name the task input is stored under.
	InputFile string `mapstructure:"input-file" validate:"required"`
	// OutputName is the name of the uploaded output file.
	OutputName string `mapstructure:"output-name" validate:"required"`
}

func DefaultConfig() Config {
	return Config{
		WorkDir:    "tasks",
		InputFile:  "input.bin",
		OutputName: "task.out",
	}
}

// codeFile returns the name the task code is stored under.
func codeFile(wasm bool) string {
	if wasm {
		return "task.wasm"
	}
	return "task.wast"
}
