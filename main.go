package main

import "tunegrab/cmd"

func main() {
	cmd.Execute()
}
