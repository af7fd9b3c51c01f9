package endpoint

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseFile reads a paths file. Each non-empty line declares one endpoint:
//
//	/v1/health
//	/v1/items auth          # requires a bearer token
//	/v1/missing status=404
//
// Tokens after the path may be "auth" (or "requires_auth") and "status=NNN".
// Everything after '#' is a comment; blank lines are ignored.
func ParseFile(path string) ([]Endpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open paths file: %w", err)
	}
	defer f.Close()

	endpoints, err := ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return endpoints, nil
}

// ParseReader parses the paths-file format from r.
func ParseReader(r io.Reader) ([]Endpoint, error) {
	var endpoints []Endpoint

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		ep := New(fields[0])

		for _, token := range fields[1:] {
			lower := strings.ToLower(token)
			switch {
			case lower == "auth" || lower == "requires_auth":
				ep.RequiresAuth = true
			case strings.HasPrefix(lower, "status="):
				code, err := strconv.Atoi(strings.TrimPrefix(lower, "status="))
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid status token %q", lineNo, token)
				}
				ep.ExpectedStatus = code
			default:
				return nil, fmt.Errorf("line %d: unknown token %q", lineNo, token)
			}
		}

		if err := ep.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		endpoints = append(endpoints, ep)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return endpoints, nil
}
