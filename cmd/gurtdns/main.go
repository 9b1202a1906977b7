// Package main is the entry point for the gurtdns service.
package main

import (
	"os"

	"github.com/lan-dot-party/gurtdns/cmd/gurtdns/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
