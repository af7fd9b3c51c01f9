// Package report renders smoke check results as progress lines, a JSON
// array, or a Markdown summary table for CI job summaries.
package report
