package main

import "bili-ticket-cli/cmd"

func main() {
	cmd.Execute()
}
