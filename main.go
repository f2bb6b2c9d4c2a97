package main

import "dietpix/cmd"

func main() {
	cmd.Execute()
}
