// Package main is the entry point for the anomalyplot CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/anomalyplot/cmd"
	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/internal/iocache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetHistoryManager(iocache.Manager)

	err := cmd.Execute(ctx)
	iocache.CloseHistory()
	if err != nil {
		contract.LogFatal("Error starting CLI", err)
	}
}
