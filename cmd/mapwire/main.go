// Package main provides the CLI entrypoint for mapwire.
//
// mapwire is the build-time half of the mapper registration:
//   - scan loads packages and lists the profiles and capability types found
//   - gen writes assembly catalogs and proxy adapters
//   - describe shows how an interface's methods map to mapper calls
//   - check fails when generated files are out of date
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
