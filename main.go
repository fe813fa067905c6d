package main

import "github.com/harlequix/paritysim/cmd"

func main() {
	cmd.Execute()
}
