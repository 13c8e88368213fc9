// Package gitmeta reads repository metadata with go-git so audit reports can
// record the commit and branch they describe without shelling out.
package gitmeta
