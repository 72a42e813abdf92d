package main

import "streamdock/cmd"

func main() {
	cmd.Execute()
}
