// Package main provides the Tradespace CLI.
package main

import "github.com/firelinelabs/tradespace/internal/cli"

func main() {
	cli.Execute()
}
