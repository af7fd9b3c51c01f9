// Package stubserver implements the static JSON echo API used as a local
// probe target for the checker. It reproduces the deployed request
// handler's contract without any business logic.
package stubserver
