package main

import (
	"github.com/solarmoff-afk/spawn/internal/cmd"
)

func main() {
	cmd.Execute()
}
