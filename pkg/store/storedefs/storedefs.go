// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only read or append history
// do not need to depend on the concrete implementation.
package storedefs

import "errors"

// ErrNoMatchingCmd is the error returned when a NextCmd or PrevCmd query
// completes with no result.
var ErrNoMatchingCmd = errors.New("no matching command line")

// Store is an interface satisfied by the storage service.
type Store interface {
	NextCmdSeq() (int, error)
	AddCmd(text string) (int, error)
	DelCmd(seq int) error
	Cmd(seq int) (string, error)
	CmdsWithSeq(from, upto int) ([]Cmd, error)
	LastCmds(n int) ([]Cmd, error)
	NextCmd(from int, prefix string) (Cmd, error)
	PrevCmd(upto int, prefix string) (Cmd, error)
}

// Cmd is an entry in the command history.
type Cmd struct {
	Text string
	Seq  int
}
