package main

import "github.com/AlharbiAbdullah/Cortex/internal/commands"

func main() {
	commands.Execute()
}
