package image

import (
	"iter"

	"github.com/ezrec/ternvm/trit"
)

// Entry is one placed word with its source location.
type Entry struct {
	LineNo int       // Source line that produced the word.
	Addr   int64     // Memory address of the word.
	Word   trit.Word // Placed word value.
}

// Image is a loadable memory image with source line annotations.
type Image struct {
	Entries []Entry
}

// Debug returns the entry that placed the word at addr, or nil.
func (img *Image) Debug(addr int64) (entry *Entry) {
	for n := range img.Entries {
		if img.Entries[n].Addr == addr {
			entry = &img.Entries[n]
			break
		}
	}

	return
}

// Words iterates the image as address/word pairs, in placement order.
func (img *Image) Words() iter.Seq2[int64, trit.Word] {
	return func(yield func(addr int64, word trit.Word) bool) {
		for _, entry := range img.Entries {
			if !yield(entry.Addr, entry.Word) {
				return
			}
		}
	}
}
