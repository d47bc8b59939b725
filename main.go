// main is the entry point for the qualens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/qualitydesk/qualens/cmd"
	"github.com/qualitydesk/qualens/internal/iocache"
)

func main() {
	// Wire the global persistence manager into the command layer.
	cmd.SetCacheManager(iocache.Manager)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		iocache.CloseCaching()
		os.Exit(1)
	}

	iocache.CloseCaching()
}
