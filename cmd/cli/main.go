package main

import (
	"rustpanel/internal/cli/cmd"
)

func main() {
	cmd.Execute()
}
