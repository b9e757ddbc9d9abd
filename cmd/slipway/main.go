package main

import "github.com/slipway-sh/slipway/internal/cli"

func main() {
	cli.Execute()
}
