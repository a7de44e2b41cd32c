// Command directory_parity checks that the server-side directory filter returns the same
// students as filtering the full snapshot locally. Each case is a query string as accepted
// by GET /students.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/client"
)

var defaultCases = []string{
	"",
	"q=engineer",
	"type=internship",
	"type=job&experience=12-24",
	"experience=0-6",
	"experience=24%2B",
	"from=2024-06-01&to=2024-12-31",
}

func main() {
	var (
		baseURL   string
		token     string
		casesPath string
		timeout   time.Duration
	)
	flag.StringVar(&baseURL, "base-url", "http://localhost:8080/api/v1", "API base URL including prefix")
	flag.StringVar(&token, "token", os.Getenv("PLACEMENT_TOKEN"), "Session token sent as bearer")
	flag.StringVar(&casesPath, "cases", "", "Optional JSON file holding an array of query strings")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync() //nolint:errcheck

	cases := defaultCases
	if casesPath != "" {
		loaded, err := loadCases(casesPath)
		if err != nil {
			logger.Fatal("failed to load cases", zap.Error(err))
		}
		cases = loaded
	}

	api, err := client.New(client.Config{BaseURL: baseURL, Timeout: timeout, Token: token, Logger: logger})
	if err != nil {
		logger.Fatal("failed to build client", zap.Error(err))
	}

	results := run(context.Background(), api.Students(), cases)
	printReport(results)

	mismatches := 0
	for _, r := range results {
		if !r.ok() {
			mismatches++
		}
	}
	fmt.Printf("Cases: %d, mismatches: %d\n", len(results), mismatches)
	if mismatches > 0 {
		os.Exit(1)
	}
}

func loadCases(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cases []string
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("no cases defined in %s", path)
	}
	return cases, nil
}
