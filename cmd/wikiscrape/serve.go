package main

import (
	"fmt"

	wikihttp "github.com/fwojciec/wikiscrape/http"
)

// Run executes the serve command. It blocks until the context is canceled
// and then shuts the server down gracefully.
func (c *ServeCmd) Run(deps *Dependencies) error {
	server := wikihttp.NewServer(deps.Scraper,
		wikihttp.WithLogger(deps.Logger),
		wikihttp.WithAllowedOrigins(deps.Settings.AllowedOrigins...),
		wikihttp.WithRequestTimeout(deps.Settings.RequestTimeout),
	)

	if err := server.Open(deps.Settings.Addr); err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot listen on %s: %v\n", deps.Settings.Addr, err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", server.Addr())

	<-deps.Ctx.Done()

	fmt.Fprintln(deps.Stdout, "Shutting down")
	return server.Close()
}
