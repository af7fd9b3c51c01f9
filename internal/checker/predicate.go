package checker

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BodyPredicate is an optional assertion on a response body that matched
// the expected status. A failed match is retryable, like a wrong status.
type BodyPredicate interface {
	Match(body []byte) error
}

type containsPredicate struct {
	needle string
}

// Contains asserts that the raw response body contains substr.
func Contains(substr string) BodyPredicate {
	return containsPredicate{needle: substr}
}

func (p containsPredicate) Match(body []byte) error {
	if !strings.Contains(string(body), p.needle) {
		return fmt.Errorf("expected body to contain %q", p.needle)
	}
	return nil
}

type jsonContainsPredicate struct {
	needle string
}

// JSONContains asserts that the body is valid JSON and that its compact
// re-serialization contains substr. The round trip normalizes whitespace
// so the match is independent of the server's formatting.
func JSONContains(substr string) BodyPredicate {
	return jsonContainsPredicate{needle: substr}
}

func (p jsonContainsPredicate) Match(body []byte) error {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("failed to parse json: %w", err)
	}
	normalized, err := json.Marshal(decoded)
	if err != nil {
		return fmt.Errorf("failed to re-serialize json: %w", err)
	}
	if !strings.Contains(string(normalized), p.needle) {
		return fmt.Errorf("expected JSON to contain %q", p.needle)
	}
	return nil
}
