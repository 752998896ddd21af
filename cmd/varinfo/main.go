package main

import "granule-varinfo/internal/cli"

func main() {
	cli.Execute()
}
