// Package gate declares the capability gates through which designated
// collaborators reach a connection's restricted operations.
//
// A gate is a closed, compile-time-fixed set of forwarding operations. The
// package is internal on purpose: code outside this module cannot import
// it, so it can neither name ConnTransaction nor supply its own
// implementation. The only implementation is the unexported forwarder in
// the conn package, and the only consumer is the transaction package, which
// receives its gate from conn.(*Conn).Begin. Everything else is shut out at
// compile time.
//
// Gates are stateless beyond the reference to their home object and are
// created per call site, never stored.
package gate

import (
	"context"

	"github.com/veldtlabs/pqbin/describe"
	"github.com/veldtlabs/pqbin/result"
)

// Transaction is the gate's view of a registrant: enough to identify it
// and to label it in error messages.
type Transaction interface {
	describe.Named
}

// ConnTransaction is the capability set a transaction holds on its
// connection. Nothing outside this enumeration is reachable through it.
type ConnTransaction interface {
	Exec(ctx context.Context, query string) (*result.Result, error)
	ExecParams(ctx context.Context, query string, args []string) (*result.Result, error)
	ExecPrepared(ctx context.Context, statement string, args []string) (*result.Result, error)

	RegisterTransaction(t Transaction) error
	UnregisterTransaction(t Transaction) error

	ReadCopyLine(ctx context.Context) (line string, ok bool, err error)
	WriteCopyLine(ctx context.Context, line string) error
	EndCopyWrite(ctx context.Context) error

	RawGetVar(ctx context.Context, name string) (string, error)
	RawSetVar(ctx context.Context, name, value string) error
}
