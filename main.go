package main

import (
	"github.com/gorgon-dev/gorgon/commands"
)

func main() {
	commands.Execute()
}
