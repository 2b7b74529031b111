// Package main is the entry point for the postcompile tool.
package main

import (
	"os"

	"go.trai.ch/postcompile"
)

func main() {
	os.Exit(postcompile.Main())
}
