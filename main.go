package main

import "github.com/meshare/meshare/cmd"

func main() {
	cmd.Execute()
}
