package main

import "github.com/crystaldolphin/toogle/cmd"

func main() {
	cmd.Execute()
}
