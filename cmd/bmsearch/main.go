// bmsearch finds every occurrence of a byte pattern with Boyer-Moore and can
// show each alignment step of the scan.
package main

import (
	"os"

	"github.com/corey/bmsearch/cmd/bmsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(2)
	}
}
