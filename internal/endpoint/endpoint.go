package endpoint

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultExpectedStatus is assumed when an endpoint does not override it.
const DefaultExpectedStatus = 200

// Endpoint is a single path plus the expectation checked against it.
// Endpoints are immutable once constructed.
type Endpoint struct {
	Path           string
	RequiresAuth   bool
	ExpectedStatus int
}

// New creates an endpoint for the given path with the default expectations.
func New(path string) Endpoint {
	return Endpoint{
		Path:           path,
		ExpectedStatus: DefaultExpectedStatus,
	}
}

// FromPaths converts a plain path list into endpoints with defaults applied.
func FromPaths(paths []string) []Endpoint {
	endpoints := make([]Endpoint, 0, len(paths))
	for _, p := range paths {
		endpoints = append(endpoints, New(p))
	}
	return endpoints
}

func (e Endpoint) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Path, validation.Required),
		validation.Field(&e.ExpectedStatus,
			validation.Required,
			validation.Min(100),
			validation.Max(599),
		),
	)
}
