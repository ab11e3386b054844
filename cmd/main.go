package main

import "pos-service/cmd/commands"

func main() {
	commands.Execute()
}
