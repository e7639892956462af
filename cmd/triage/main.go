package main

import "health-triage/internal/cli"

func main() {
	cli.Execute()
}
