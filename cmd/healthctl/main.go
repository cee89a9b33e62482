package main

import "github.com/octabyte/bm-health-portal/cmd/healthctl/commands"

func main() {
	commands.Execute()
}
