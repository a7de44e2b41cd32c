// Command skillpick drives a skill picker against a running placement API from stdin.
//
// Each input line is a command: plain text sets the query, ":pick N" toggles result N,
// ":add" creates the current query, ":close" closes the dropdown and ":quit" exits. With
// -course the picker is single-select and ":category ug|pg|diploma|phd" picks the category
// for ":add".
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/client"
	"github.com/noah-isme/placement-portal-api/internal/picker"
	"github.com/noah-isme/placement-portal-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var (
		baseURL string
		token   string
		delay   time.Duration
		course  bool
		verbose bool
	)
	flag.StringVar(&baseURL, "base-url", cfg.Lookup.BaseURL, "API base URL including prefix")
	flag.StringVar(&token, "token", os.Getenv("PLACEMENT_TOKEN"), "Session token, needed for :add")
	flag.DurationVar(&delay, "delay", cfg.Lookup.DebounceDelay, "Debounce delay before searching")
	flag.BoolVar(&course, "course", false, "Pick a course instead of skills")
	flag.BoolVar(&verbose, "v", false, "Log lookups to stderr")
	flag.Parse()

	logger := zap.NewNop()
	if verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync() //nolint:errcheck

	api, err := client.New(client.Config{BaseURL: baseURL, Timeout: cfg.Lookup.Timeout, Token: token, Logger: logger})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sess := newSession(os.Stdout)
	opts := picker.Options{Delay: delay, Logger: logger, OnChange: sess.render}
	p := newPicker(course, api.Skills(), api.Courses(), opts)
	sess.attach(p)
	defer p.Stop()

	if err := sess.run(context.Background(), os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
