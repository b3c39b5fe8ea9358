package main

import "t4auto/cmd"

func main() {
	cmd.Execute()
}
