package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"xscribe/internal/services"
	"xscribe/internal/supervisor"
)

const (
	exitOK          = 0
	exitAllFailed   = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	sup := supervisor.New()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		sup.CancelAll()
		fmt.Fprintln(os.Stderr, "Cancelled.")
		os.Exit(exitInterrupted)
	}()

	cmd := newRootCommand(sup)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, services.ErrUsage) {
			return exitUsage
		}
		return exitAllFailed
	}
	return exitOK
}
