// Package sync implements the two-directional engine between the remote
// catalog and the local mirror: pull (remote to disk) and push (disk to
// remote, diffed and policy-gated per content item).
package sync

import "strings"

// Normalize canonicalizes content text for equivalence comparison: trim and
// collapse every whitespace run to a single space. The result is only ever a
// comparison key; it is never persisted.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
