package main

import "github.com/mcoot/crackthecode/internal/cli"

func main() {
	cli.Execute()
}
