// Verify_report validates a JSON smoke report by checking for duplicate
// endpoint paths and recomputing the pass/fail/skip counts.
//
// Usage:
//
//	go run verify_report.go -report smoke-report.json -max-failures 0
//
// The tool verifies:
//   - The report parses as a result array (well-formedness)
//   - No endpoint path appears twice (data integrity)
//   - The failure count stays within the allowed budget (gating)
//
// Exit codes:
//
//	0 - Verification passed
//	2 - File errors or malformed JSON
//	3 - Failure budget exceeded
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
)

type reportEntry struct {
	Path       string `json:"path"`
	URL        string `json:"url"`
	StatusCode *int   `json:"status_code"`
	OK         bool   `json:"ok"`
	Skipped    bool   `json:"skipped"`
	Message    string `json:"message"`
}

func main() {
	reportPath := flag.String("report", "smoke-report.json", "Path to the JSON smoke report")
	maxFailures := flag.Int("max-failures", 0, "Maximum number of failed endpoints allowed")
	flag.Parse()

	data, err := os.ReadFile(*reportPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read report: %v\n", err)
		os.Exit(2)
	}

	var entries []reportEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse report: %v\n", err)
		os.Exit(2)
	}

	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "report contains no results\n")
		os.Exit(2)
	}

	seen := map[string]bool{}
	passed, failed, skipped := 0, 0, 0

	for _, e := range entries {
		if seen[e.Path] {
			fmt.Fprintf(os.Stderr, "duplicate endpoint path in report: %s\n", e.Path)
			os.Exit(2)
		}
		seen[e.Path] = true

		switch {
		case e.OK:
			passed++
		case e.Skipped:
			skipped++
		default:
			failed++
			fmt.Printf("FAIL %s: %s\n", e.Path, e.Message)
		}
	}

	fmt.Printf("total=%d passed=%d failed=%d skipped=%d\n", len(entries), passed, failed, skipped)

	if failed > *maxFailures {
		fmt.Fprintf(os.Stderr, "failure budget exceeded: %d > %d\n", failed, *maxFailures)
		os.Exit(3)
	}
}
