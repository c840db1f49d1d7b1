// Command nscache reads and writes namespaced cache entries in Redis.
//
//	nscache --ns users set alice '[["id","name"],[1,"Alice"]]' --json --ttl 1d
//	nscache --ns users get alice
//	nscache --ns users purge
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
