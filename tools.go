//go:build tools
// +build tools

package tools

// Tracks CLI tool dependencies in go.mod so `go run` pins their versions.
// golangci-lint backs the pre-commit hook, swag regenerates the API docs
// from handler annotations, and benchstat compares benchmark baselines.

import (
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
	_ "github.com/swaggo/swag/cmd/swag"
	_ "golang.org/x/perf/cmd/benchstat"
)
