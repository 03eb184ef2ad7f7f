package main

import "github.com/HaiFongPan/xtal-cli/cmd"

func main() {
	cmd.Execute()
}
