// Package endpoint defines the endpoints probed by the smoke checker and
// the line-oriented paths-file format they can be declared in.
package endpoint
