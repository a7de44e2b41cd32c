package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/noah-isme/placement-portal-api/internal/directory"
	"github.com/noah-isme/placement-portal-api/internal/models"
)

type studentSource interface {
	FetchAll(ctx context.Context) ([]models.StudentProfile, error)
	Query(ctx context.Context, criteria models.FilterCriteria) (directory.View, error)
}

type comparison struct {
	Case     string
	Local    []string
	Server   []string
	Duration time.Duration
	Err      error
}

func (c comparison) ok() bool {
	if c.Err != nil || len(c.Local) != len(c.Server) {
		return false
	}
	for i := range c.Local {
		if c.Local[i] != c.Server[i] {
			return false
		}
	}
	return true
}

func run(ctx context.Context, source studentSource, cases []string) []comparison {
	all, err := source.FetchAll(ctx)
	if err != nil {
		return []comparison{{Case: "fetch all", Err: err}}
	}
	snapshot := directory.NewSnapshot(all, time.Now())

	results := make([]comparison, 0, len(cases))
	for _, raw := range cases {
		results = append(results, compareCase(ctx, source, snapshot, raw))
	}
	return results
}

func compareCase(ctx context.Context, source studentSource, snapshot *directory.Snapshot, raw string) comparison {
	comp := comparison{Case: raw}
	values, err := url.ParseQuery(raw)
	if err != nil {
		comp.Err = fmt.Errorf("parse case: %w", err)
		return comp
	}
	criteria, err := directory.ParseCriteria(values)
	if err != nil {
		comp.Err = err
		return comp
	}

	comp.Local = profileIDs(directory.Compute(snapshot, criteria).Students)

	start := time.Now()
	view, err := source.Query(ctx, criteria)
	comp.Duration = time.Since(start)
	if err != nil {
		comp.Err = fmt.Errorf("server query: %w", err)
		return comp
	}
	comp.Server = profileIDs(view.Students)
	return comp
}

func profileIDs(profiles []models.StudentProfile) []string {
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	return ids
}

func printReport(results []comparison) {
	fmt.Println("Directory Parity Report")
	fmt.Println("=======================")
	for _, res := range results {
		status := "OK"
		switch {
		case res.Err != nil:
			status = "ERROR"
		case !res.ok():
			status = "DIFF"
		}
		label := res.Case
		if label == "" {
			label = "(no filters)"
		}
		fmt.Printf("[%s] %s\n", status, label)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  Local: %d | Server: %d (%s)\n", len(res.Local), len(res.Server), res.Duration)
	}
}
