package main

import (
	"abundatron/cmd/abundatron/cmd"
)

func main() {
	cmd.Execute()
}
