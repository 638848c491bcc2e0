package io

import (
	"errors"

	"github.com/ezrec/isasim/translate"
)

var f = translate.From

var (
	// Store errors
	ErrStoreInvalid = errors.New(f("store has no file system"))
)
