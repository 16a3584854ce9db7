package main

import "covertrack/cmd"

func main() {
	cmd.Execute()
}
