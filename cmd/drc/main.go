package main

import "github.com/OpenTraceLab/OpenTraceDRC/cmd/drc/cmd"

func main() {
	cmd.Execute()
}
