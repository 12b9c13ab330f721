package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	server "pet-rescue/server"
	"pet-rescue/server/internal/mapdata"
	appnet "pet-rescue/server/internal/net"
	"pet-rescue/server/internal/term"
	"pet-rescue/server/internal/world"
	"pet-rescue/server/logging"
	"pet-rescue/server/logging/sinks"
)

// Options configures the process. Zero values fall back to defaults.
type Options struct {
	Addr       string // HTTP listen address
	SSHAddr    string // spectator console address, empty disables it
	SSHHostKey string // path to the console host key, empty for ephemeral
	MapPath    string // map document path, empty uses the bundled map
	Seed       string // round seed, empty uses the map default
}

// normalized fills unset fields from the environment, then from defaults.
func (o Options) normalized() Options {
	if o.Addr == "" {
		o.Addr = os.Getenv("PETRESCUE_ADDR")
	}
	if o.Addr == "" {
		o.Addr = ":8080"
	}
	if o.SSHAddr == "" {
		o.SSHAddr = os.Getenv("PETRESCUE_SSH_ADDR")
	}
	if o.SSHHostKey == "" {
		o.SSHHostKey = os.Getenv("PETRESCUE_SSH_HOST_KEY")
	}
	if o.MapPath == "" {
		o.MapPath = os.Getenv("PETRESCUE_MAP")
	}
	if o.Seed == "" {
		o.Seed = os.Getenv("PETRESCUE_SEED")
	}
	return o
}

// Run wires the map, the logging router, the hub, and both listeners, and
// blocks until ctx is canceled or a listener fails.
func Run(ctx context.Context, opts Options) error {
	opts = opts.normalized()

	var doc *mapdata.Document
	if opts.MapPath != "" {
		loaded, err := mapdata.Load(opts.MapPath)
		if err != nil {
			return err
		}
		doc = loaded
	} else {
		doc = mapdata.Default()
	}

	cfg := world.DefaultConfig()
	if opts.Seed != "" {
		cfg.Seed = opts.Seed
	}

	router := logging.NewRouter(logging.DefaultConfig(), logging.SystemClock{}, []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout)},
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := router.Close(closeCtx); err != nil {
			log.Printf("logging router close: %v", err)
		}
	}()

	hub := server.NewHub(doc, cfg, router)

	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	httpSrv := &http.Server{Addr: opts.Addr, Handler: appnet.NewMux(hub)}

	errCh := make(chan error, 2)
	go func() {
		log.Printf("server listening on %s", opts.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	if opts.SSHAddr != "" {
		console := term.NewConsole(opts.SSHAddr, opts.SSHHostKey, hub)
		go func() {
			errCh <- console.Start()
		}()
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
