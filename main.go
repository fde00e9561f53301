package main

import "capburn/internal/cli"

func main() {
	cli.Main()
}
