package main

import "github.com/buckleypaul/comsetup/internal/cli"

func main() {
	cli.Execute()
}
