// Package classification assigns a risk category to extracted documentation
// commands. Rules form an explicit ordered list evaluated top-down with first
// match wins: network, then destructive, then sandboxed, then safe. The
// classifier is stateless and total; unrecognized commands classify safe.
package classification
