package main

import "github.com/polycopy/polyscore/cmd"

func main() {
	cmd.Execute()
}
