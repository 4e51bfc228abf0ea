// Package msigtest provides helpers for testing wallets and their
// collaborators.
package msigtest
