package main

import (
	"github.com/onflow/dispute-client/cmd/challenger/cmd"
)

func main() {
	cmd.Execute()
}
