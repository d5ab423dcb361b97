package main

import "github.com/xvierd/clockin/cmd"

func main() {
	cmd.Execute()
}
