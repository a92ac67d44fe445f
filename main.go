// Package main is the entry point for the schemacov CLI.
package main

import "schemacov.dev/pkg/schemacov/cmd"

func main() {
	cmd.Execute()
}
