// Package main is the entry point for the gcourse application.
package main

import (
	"github.com/gcourse-cli/gcourse/cmd"
	"github.com/gcourse-cli/gcourse/config"
	"github.com/gcourse-cli/gcourse/internal/cache"
	"github.com/gcourse-cli/gcourse/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Initialize asynchronous background cache maintenance.
	go cache.CollectGarbage()

	cmd.Execute()
}
