package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pet-rescue/server/internal/app"
)

func main() {
	var opts app.Options
	flag.StringVar(&opts.Addr, "addr", "", "HTTP listen address (default :8080)")
	flag.StringVar(&opts.SSHAddr, "ssh-addr", "", "spectator console address (empty disables)")
	flag.StringVar(&opts.SSHHostKey, "ssh-host-key", "", "spectator console host key path")
	flag.StringVar(&opts.MapPath, "map", "", "map document path (empty uses the bundled map)")
	flag.StringVar(&opts.Seed, "seed", "", "round seed (empty uses the map default)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, opts); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
