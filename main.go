package main

import "github.com/nsyszr/chatline/cmd"

func main() {
	cmd.Execute()
}
