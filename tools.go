//go:build tools

// Package groupchat pins the code generators used by go:generate.
// The mocks under mocks/ are produced by mockgen from the repository,
// service and contract interfaces: go generate ./...
package groupchat

import (
	_ "go.uber.org/mock/mockgen"
)
