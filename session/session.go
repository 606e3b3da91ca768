// Package session defines the backend a connection executes against.
package session

import (
	"context"

	"github.com/veldtlabs/pqbin/result"
)

// Backend is the execution engine behind a connection.
//
// Contract:
// - Exec MUST be all-or-nothing: an error means no result was produced.
// - GetVar MUST return ErrVarNotFound for variables that were never set
//   and have no default.
// - ReadCopyLine returns ok=false exactly once, at end of stream; further
//   reads return ErrNoCopy.
// - WriteCopyLine after EndCopyWrite MUST return ErrCopyClosed.
type Backend interface {
	Exec(ctx context.Context, query string, args []string) (*result.Result, error)
	GetVar(ctx context.Context, name string) (string, error)
	SetVar(ctx context.Context, name, value string) error
	ReadCopyLine(ctx context.Context) (line string, ok bool, err error)
	WriteCopyLine(ctx context.Context, line string) error
	EndCopyWrite(ctx context.Context) error
}
