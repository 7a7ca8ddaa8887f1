package main

import "github.com/mcoot/crackthecode/internal/admincli"

func main() {
	admincli.Execute()
}
