package main

import "github.com/polylab/polycrit/cmd"

func main() {
	cmd.Execute()
}
