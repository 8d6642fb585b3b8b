package main

import "github.com/catascope/catascope/cmd"

func main() {
	cmd.Execute()
}
