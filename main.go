package main

import (
	"os"

	"vidplan/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
