package trit

import (
	"errors"

	"github.com/ezrec/ternvm/translate"
)

var f = translate.From

var (
	ErrRange = errors.New(f("value out of word range"))
)

// ErrParseWord reports a malformed trit string.
type ErrParseWord string

func (err ErrParseWord) Error() string {
	return f("'%v' is not a %v-trit word", string(err), WORD_TRITS)
}

func (err ErrParseWord) Is(other error) (ok bool) {
	_, ok = other.(ErrParseWord)
	return
}
