package utils

import (
	"os"
	"os/signal"
	"syscall"
)

// HandleTerminationProcess runs cleanup once on SIGINT or SIGTERM and exits.
func HandleTerminationProcess(cleanup func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cleanup()
		os.Exit(0)
	}()
}
