// Package transaction implements the transaction lifecycle manager, the
// sole collaborator admitted through the connection's capability gate.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/veldtlabs/pqbin/describe"
	"github.com/veldtlabs/pqbin/internal/gate"
	"github.com/veldtlabs/pqbin/result"
)

// ErrFinished is returned for operations on a committed or aborted
// transaction.
var ErrFinished = errors.New("transaction: already finished")

// Status is a transaction's lifecycle state.
type Status int

const (
	StatusActive Status = iota
	StatusCommitted
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCommitted:
		return "committed"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Transaction manages one transaction on one connection. All of its work
// flows through the capability gate it was constructed with; it has no
// other access to the connection.
type Transaction struct {
	g    gate.ConnTransaction
	name string

	mu     sync.Mutex
	status Status
}

var _ describe.Named = (*Transaction)(nil)

// Begin registers a new transaction on the gate's home connection and
// issues BEGIN. Called by conn.(*Conn).Begin; the gate argument cannot be
// constructed outside this module.
func Begin(ctx context.Context, g gate.ConnTransaction, name string) (*Transaction, error) {
	t := &Transaction{g: g, name: name, status: StatusActive}
	if err := g.RegisterTransaction(t); err != nil {
		return nil, err
	}
	if _, err := g.Exec(ctx, "BEGIN"); err != nil {
		_ = g.UnregisterTransaction(t)
		return nil, fmt.Errorf("%s: begin: %w", describe.Label(t), err)
	}
	return t, nil
}

func (t *Transaction) ClassName() string { return "transaction" }

func (t *Transaction) Name() string { return t.name }

// Status returns the lifecycle state.
func (t *Transaction) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Exec runs a query inside the transaction.
func (t *Transaction) Exec(ctx context.Context, query string) (*result.Result, error) {
	if err := t.active(); err != nil {
		return nil, err
	}
	return t.g.Exec(ctx, query)
}

// ExecParams runs a parameterized query inside the transaction.
func (t *Transaction) ExecParams(ctx context.Context, query string, args []string) (*result.Result, error) {
	if err := t.active(); err != nil {
		return nil, err
	}
	return t.g.ExecParams(ctx, query, args)
}

// ExecPrepared runs a prepared statement inside the transaction.
func (t *Transaction) ExecPrepared(ctx context.Context, statement string, args []string) (*result.Result, error) {
	if err := t.active(); err != nil {
		return nil, err
	}
	return t.g.ExecPrepared(ctx, statement, args)
}

// GetVar reads a session variable through the gate.
func (t *Transaction) GetVar(ctx context.Context, name string) (string, error) {
	if err := t.active(); err != nil {
		return "", err
	}
	return t.g.RawGetVar(ctx, name)
}

// SetVar sets a session variable through the gate.
func (t *Transaction) SetVar(ctx context.Context, name, value string) error {
	if err := t.active(); err != nil {
		return err
	}
	return t.g.RawSetVar(ctx, name, value)
}

// ReadCopyLine reads one line of an incoming copy stream. ok=false marks
// the end of the stream.
func (t *Transaction) ReadCopyLine(ctx context.Context) (string, bool, error) {
	if err := t.active(); err != nil {
		return "", false, err
	}
	return t.g.ReadCopyLine(ctx)
}

// WriteCopyLine sends one line of an outgoing copy stream.
func (t *Transaction) WriteCopyLine(ctx context.Context, line string) error {
	if err := t.active(); err != nil {
		return err
	}
	return t.g.WriteCopyLine(ctx, line)
}

// EndCopyWrite terminates the outgoing copy stream.
func (t *Transaction) EndCopyWrite(ctx context.Context) error {
	if err := t.active(); err != nil {
		return err
	}
	return t.g.EndCopyWrite(ctx)
}

// Commit issues COMMIT and unregisters the transaction. If COMMIT fails
// the transaction is left aborted.
func (t *Transaction) Commit(ctx context.Context) error {
	return t.finish(ctx, "COMMIT", StatusCommitted)
}

// Rollback issues ROLLBACK and unregisters the transaction.
func (t *Transaction) Rollback(ctx context.Context) error {
	return t.finish(ctx, "ROLLBACK", StatusAborted)
}

func (t *Transaction) finish(ctx context.Context, verb string, next Status) error {
	t.mu.Lock()
	if t.status != StatusActive {
		status := t.status
		t.mu.Unlock()
		return fmt.Errorf("%s is %s: %w", describe.Label(t), status, ErrFinished)
	}
	t.mu.Unlock()

	_, execErr := t.g.Exec(ctx, verb)

	t.mu.Lock()
	if execErr != nil {
		t.status = StatusAborted
	} else {
		t.status = next
	}
	t.mu.Unlock()

	if err := t.g.UnregisterTransaction(t); err != nil {
		return err
	}
	if execErr != nil {
		return fmt.Errorf("%s: %s: %w", describe.Label(t), verb, execErr)
	}
	return nil
}

func (t *Transaction) active() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != StatusActive {
		return fmt.Errorf("%s is %s: %w", describe.Label(t), t.status, ErrFinished)
	}
	return nil
}
