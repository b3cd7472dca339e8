// Command forecast looks up the weather forecast for a ZIP code and prints
// it as a window of cards, optionally paging through it interactively.
//
// Usage:
//
//	go run ./cmd/forecast -zip 10001
//	go run ./cmd/forecast -zip 10001 -all
//	go run ./cmd/forecast -zip 10001 -interactive
//
// Upstream endpoints and timeouts come from the same environment variables
// as the server (NOMINATIM_URL, NWS_URL, USER_AGENT, REQUEST_TIMEOUT).
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/couchcryptid/zip-forecast/internal/adapter/nominatim"
	"github.com/couchcryptid/zip-forecast/internal/adapter/nws"
	"github.com/couchcryptid/zip-forecast/internal/config"
	"github.com/couchcryptid/zip-forecast/internal/lookup"
	"github.com/couchcryptid/zip-forecast/internal/observability"
	"github.com/couchcryptid/zip-forecast/internal/presenter"
	"github.com/joho/godotenv"
)

var errLookupFailed = errors.New("lookup failed")

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

type options struct {
	zip         string
	window      int
	all         bool
	interactive bool
}

func parseFlags(args []string, defaultWindow int) (options, error) {
	var opts options
	fs := flag.NewFlagSet("forecast", flag.ContinueOnError)
	fs.StringVar(&opts.zip, "zip", "", "ZIP code to look up (required)")
	fs.IntVar(&opts.window, "window", defaultWindow, "cards per page, 0 shows all")
	fs.BoolVar(&opts.all, "all", false, "print every period at once (same as -window 0)")
	fs.BoolVar(&opts.interactive, "interactive", false, "page with n/p, quit with q")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.zip = strings.TrimSpace(opts.zip)
	if opts.zip == "" {
		fs.Usage()
		return opts, errors.New("missing required flag: -zip")
	}
	if opts.window < 0 {
		return opts, fmt.Errorf("invalid -window %d", opts.window)
	}
	if opts.all {
		opts.window = 0
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts, err := parseFlags(args, cfg.WindowSize)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	geocoder := nominatim.NewClient(cfg.NominatimURL, cfg.GeocoderCountry, cfg.UserAgent, cfg.RequestTimeout, metrics, logger)
	forecasts := nws.NewClient(cfg.NWSURL, cfg.UserAgent, cfg.RequestTimeout, metrics, logger)
	chain := lookup.New(geocoder, forecasts, nil, logger, metrics)

	return present(ctx, presenter.New(chain, opts.window, logger, metrics), opts, stdin, stdout)
}

// present submits the lookup and prints the result in the requested mode.
func present(ctx context.Context, p *presenter.Presenter, opts options, stdin io.Reader, stdout io.Writer) error {
	v := p.Submit(ctx, opts.zip)
	if v.Error != "" {
		fmt.Fprintln(stdout, v.Error)
		return errLookupFailed
	}

	renderView(stdout, v)
	if opts.interactive && !opts.all {
		pageInteractively(p, stdin, stdout)
	}
	return nil
}

func pageInteractively(p *presenter.Presenter, stdin io.Reader, stdout io.Writer) {
	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, "[n]ext [p]rev [q]uit > ")
		if !scanner.Scan() {
			fmt.Fprintln(stdout)
			return
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "next":
			renderView(stdout, p.Advance())
		case "p", "prev":
			renderView(stdout, p.Retreat())
		case "q", "quit":
			return
		}
	}
}

func renderView(w io.Writer, v presenter.View) {
	if len(v.Cards) == 0 {
		fmt.Fprintf(w, "Forecast for: %s, %s (no periods)\n", v.City, v.State)
		return
	}
	fmt.Fprintf(w, "Forecast for: %s, %s (%d-%d of %d)\n",
		v.City, v.State, v.Offset+1, v.Offset+len(v.Cards), v.Total)
	for _, c := range v.Cards {
		fmt.Fprintf(w, "  %-16s %4d°F  %-10s %s\n", c.Name, c.Temperature, c.Icon, c.Condition)
	}
}
