package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	docpackhttp "github.com/jmendel/docpack/http"
)

// Run executes the serve command. The server runs until the context is
// canceled or the listener fails.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := &http.Server{
		Addr:        c.Addr,
		Handler:     docpackhttp.NewServer(c.Library, deps.Logger),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	fmt.Fprintf(deps.Stdout, "Serving %s on http://%s\n", c.Library, c.Addr)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-deps.Ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
