package main

import "PhotoAnalyzer/internal/cli"

func main() {
	cli.Execute()
}
