// Package checker implements the retrying HTTP check engine shared by the
// health and smoke commands. It probes endpoints with GET requests,
// classifies the outcome against the expected status and an optional body
// predicate, and retries failures with exponential backoff. Failures are
// reported in the Result, never returned as errors; the one exception is
// invalid configuration, which fails fast before any network activity.
package checker
