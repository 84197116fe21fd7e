package main

import "github.com/martinemde/tandem/cmd/tandem/cli"

func main() {
	cli.Execute()
}
