// Package model defines the shared documentation-command data types produced
// by extraction and consumed by classification and reporting.
package model
