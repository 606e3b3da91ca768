package conn

import (
	"context"

	"github.com/veldtlabs/pqbin/internal/gate"
	"github.com/veldtlabs/pqbin/result"
)

// transactionGate forwards the enumerated gate.ConnTransaction operations
// to its home connection's unexported methods. It carries no state of its
// own and exists only for the lifetime of the transaction Begin handed it
// to; every method is a plain forward.
type transactionGate struct {
	home *Conn
}

var _ gate.ConnTransaction = transactionGate{}

func (g transactionGate) Exec(ctx context.Context, query string) (*result.Result, error) {
	return g.home.exec(ctx, query)
}

func (g transactionGate) ExecParams(ctx context.Context, query string, args []string) (*result.Result, error) {
	return g.home.execParams(ctx, query, args)
}

func (g transactionGate) ExecPrepared(ctx context.Context, statement string, args []string) (*result.Result, error) {
	return g.home.execPrepared(ctx, statement, args)
}

func (g transactionGate) RegisterTransaction(t gate.Transaction) error {
	return g.home.registerTransaction(t)
}

func (g transactionGate) UnregisterTransaction(t gate.Transaction) error {
	return g.home.unregisterTransaction(t)
}

func (g transactionGate) ReadCopyLine(ctx context.Context) (string, bool, error) {
	return g.home.readCopyLine(ctx)
}

func (g transactionGate) WriteCopyLine(ctx context.Context, line string) error {
	return g.home.writeCopyLine(ctx, line)
}

func (g transactionGate) EndCopyWrite(ctx context.Context) error {
	return g.home.endCopyWrite(ctx)
}

func (g transactionGate) RawGetVar(ctx context.Context, name string) (string, error) {
	return g.home.rawGetVar(ctx, name)
}

func (g transactionGate) RawSetVar(ctx context.Context, name, value string) error {
	return g.home.rawSetVar(ctx, name, value)
}
