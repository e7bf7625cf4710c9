//go:build tools
// +build tools

// Package tools declares tool dependencies for this module.
//
// mockgen is invoked through the go:generate directives of the contract,
// repositories and services packages; importing it here keeps it pinned in go.mod.
package social_club

import (
	_ "go.uber.org/mock/mockgen"
)
