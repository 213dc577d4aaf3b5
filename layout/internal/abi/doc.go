// Package abi holds the alignment and overflow-checked arithmetic shared by
// the layout builders.
package abi
