package main

import (
	"github.com/xmazu/envq/cmd"
)

var (
	Version string
)

func main() {
	cmd.SetVersion(Version)
	cmd.Execute()
}
