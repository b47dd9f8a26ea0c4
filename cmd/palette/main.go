package main

import "github.com/amterp/palette/internal/cli"

func main() {
	cli.Run()
}
