package main

import "github.com/kestrelworks/pulseboard/cmd"

func main() {
	cmd.Execute()
}
