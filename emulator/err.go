package emulator

import (
	"errors"

	"github.com/ezrec/isasim/translate"
)

var f = translate.From

var (
	ErrCommandArgs = errors.New(f("command arguments invalid"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrCommand is an unknown monitor command.
type ErrCommand string

func (err ErrCommand) Error() string {
	return f("unknown command '%v', try 'help'", string(err))
}
