package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/angeloszaimis/api-smoke/internal/checker"
)

// Summary aggregates results. Skipped endpoints count as neither passed
// nor failed.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// Summarize tallies the per-endpoint outcomes.
func Summarize(results []checker.Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.OK:
			s.Passed++
		case r.Skipped:
			s.Skipped++
		default:
			s.Failed++
		}
	}
	return s
}

// StatusLabel is the human-readable outcome used in progress lines and the
// Markdown table.
func StatusLabel(r checker.Result) string {
	switch {
	case r.OK:
		return "PASS"
	case r.Skipped:
		return "SKIPPED"
	default:
		return "FAIL"
	}
}

// entry is the stable JSON report shape consumed by downstream CI tooling.
type entry struct {
	Path           string  `json:"path"`
	RequiresAuth   bool    `json:"requires_auth"`
	ExpectedStatus int     `json:"expected_status"`
	URL            string  `json:"url"`
	StatusCode     *int    `json:"status_code"`
	OK             bool    `json:"ok"`
	Skipped        bool    `json:"skipped"`
	Message        string  `json:"message"`
	DurationMs     float64 `json:"duration_ms"`
}

// WriteJSON writes the results as an indented JSON array.
func WriteJSON(w io.Writer, results []checker.Result) error {
	entries := make([]entry, 0, len(results))
	for _, r := range results {
		e := entry{
			Path:           r.Endpoint.Path,
			RequiresAuth:   r.Endpoint.RequiresAuth,
			ExpectedStatus: r.Endpoint.ExpectedStatus,
			URL:            r.URL,
			OK:             r.OK,
			Skipped:        r.Skipped,
			Message:        r.Message,
			DurationMs:     float64(r.Duration.Microseconds()) / 1000,
		}
		if r.StatusCode != 0 {
			code := r.StatusCode
			e.StatusCode = &code
		}
		entries = append(entries, e)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// WriteMarkdown writes the summary counts and a per-endpoint table.
func WriteMarkdown(w io.Writer, results []checker.Result) error {
	s := Summarize(results)

	var b strings.Builder
	b.WriteString("### API Smoke Test Report\n\n")
	fmt.Fprintf(&b, "- Total endpoints: %d\n", s.Total)
	fmt.Fprintf(&b, "- Passed: %d\n", s.Passed)
	fmt.Fprintf(&b, "- Failed: %d\n", s.Failed)
	fmt.Fprintf(&b, "- Skipped: %d\n", s.Skipped)
	b.WriteString("\n| Path | Status | Message |\n")
	b.WriteString("| --- | --- | --- |\n")

	for _, r := range results {
		message := strings.ReplaceAll(r.Message, "|", "\\|")
		message = strings.ReplaceAll(message, "\n", " ")
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", r.Endpoint.Path, StatusLabel(r), message)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// SaveJSON writes the JSON report to path.
func SaveJSON(path string, results []checker.Result) error {
	return save(path, results, WriteJSON)
}

// SaveMarkdown writes the Markdown report to path.
func SaveMarkdown(path string, results []checker.Result) error {
	return save(path, results, WriteMarkdown)
}

func save(path string, results []checker.Result, write func(io.Writer, []checker.Result) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := write(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
