// Package main is the entry point for promcheck.
package main

import "promcheck/cmd/promcheck/cmd"

func main() {
	cmd.Execute()
}
