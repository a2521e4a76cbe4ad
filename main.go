package main

import "aiken2qti/cmd"

func main() {
	cmd.Execute()
}
