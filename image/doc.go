// Package image loads textual memory images: bare word values and
// instruction mnemonics placed at addresses, with equates and load-time
// $() expressions.
package image
