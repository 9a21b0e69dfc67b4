package main

import "github.com/itsmostafa/notedex/cmd"

func main() {
	cmd.Execute()
}
