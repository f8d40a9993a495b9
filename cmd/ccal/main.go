package main

import "github.com/kberkey/ccal/command"

func main() {
	command.Main()
}
