// Package conn implements the connection object of the support core.
//
// A Conn executes against a pluggable session.Backend. Its transaction,
// copy-protocol, and raw-variable operations are unexported; transactions
// reach them through the capability gate constructed by Begin, and nothing
// else can.
package conn

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/veldtlabs/pqbin/describe"
	"github.com/veldtlabs/pqbin/result"
	"github.com/veldtlabs/pqbin/session"
	"github.com/veldtlabs/pqbin/transaction"
)

var (
	ErrClosed            = errors.New("conn: connection is closed")
	ErrTransactionActive = errors.New("conn: a transaction is already active")
	ErrNotRegistered     = errors.New("conn: transaction is not registered on this connection")
	ErrUnknownPrepared   = errors.New("conn: unknown prepared statement")
)

// Options configures a connection.
type Options struct {
	// Name labels the connection in error messages. Optional.
	Name string
}

// Conn is a connection to a session backend. Safe for concurrent use,
// though at most one transaction may be registered at a time.
type Conn struct {
	backend session.Backend

	mu         sync.Mutex
	name       string
	prepared   map[string]string
	registered describe.Named
	closed     bool
}

var _ describe.Named = (*Conn)(nil)

// New constructs a connection over the given backend.
func New(backend session.Backend, opts Options) (*Conn, error) {
	if backend == nil {
		return nil, errors.New("conn: backend is required")
	}
	return &Conn{
		backend:  backend,
		name:     opts.Name,
		prepared: make(map[string]string),
	}, nil
}

func (c *Conn) ClassName() string { return "connection" }

func (c *Conn) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// Close marks the connection unusable. It fails while a transaction is
// still registered.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.registered != nil {
		return fmt.Errorf("%s: %w", describe.Label(c.registered), ErrTransactionActive)
	}
	c.closed = true
	return nil
}

// Exec runs a query outside any transaction.
func (c *Conn) Exec(ctx context.Context, query string) (*result.Result, error) {
	return c.exec(ctx, query)
}

// Prepare registers a named statement for later execution with parameters.
func (c *Conn) Prepare(name, query string) error {
	if name == "" {
		return errors.New("conn: prepared statement name is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.labeledErr(ErrClosed)
	}
	c.prepared[name] = query
	return nil
}

// GetVar reads a session variable.
func (c *Conn) GetVar(ctx context.Context, name string) (string, error) {
	return c.rawGetVar(ctx, name)
}

// SetVar sets a session variable.
func (c *Conn) SetVar(ctx context.Context, name, value string) error {
	return c.rawSetVar(ctx, name, value)
}

// Begin opens a transaction. The transaction receives a capability gate
// onto this connection; the gate is created here and nowhere else.
func (c *Conn) Begin(ctx context.Context, name string) (*transaction.Transaction, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return transaction.Begin(ctx, transactionGate{home: c}, name)
}

// Restricted operations. Reachable only through the transaction gate.

func (c *Conn) exec(ctx context.Context, query string) (*result.Result, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return c.backend.Exec(ctx, query, nil)
}

func (c *Conn) execParams(ctx context.Context, query string, args []string) (*result.Result, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return c.backend.Exec(ctx, query, args)
}

func (c *Conn) execPrepared(ctx context.Context, statement string, args []string) (*result.Result, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	query, ok := c.prepared[statement]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", describe.Label(c), statement, ErrUnknownPrepared)
	}
	return c.backend.Exec(ctx, query, args)
}

func (c *Conn) registerTransaction(t describe.Named) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.labeledErr(ErrClosed)
	}
	if c.registered != nil {
		return fmt.Errorf("cannot open %s on %s: %s: %w",
			describe.Label(t), c.label(), describe.Label(c.registered), ErrTransactionActive)
	}
	c.registered = t
	return nil
}

func (c *Conn) unregisterTransaction(t describe.Named) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.registered != t {
		return fmt.Errorf("%s: %w", describe.Label(t), ErrNotRegistered)
	}
	c.registered = nil
	return nil
}

func (c *Conn) readCopyLine(ctx context.Context) (string, bool, error) {
	if err := c.check(); err != nil {
		return "", false, err
	}
	return c.backend.ReadCopyLine(ctx)
}

func (c *Conn) writeCopyLine(ctx context.Context, line string) error {
	if err := c.check(); err != nil {
		return err
	}
	return c.backend.WriteCopyLine(ctx, line)
}

func (c *Conn) endCopyWrite(ctx context.Context) error {
	if err := c.check(); err != nil {
		return err
	}
	return c.backend.EndCopyWrite(ctx)
}

func (c *Conn) rawGetVar(ctx context.Context, name string) (string, error) {
	if err := c.check(); err != nil {
		return "", err
	}
	return c.backend.GetVar(ctx, name)
}

func (c *Conn) rawSetVar(ctx context.Context, name, value string) error {
	if err := c.check(); err != nil {
		return err
	}
	return c.backend.SetVar(ctx, name, value)
}

func (c *Conn) check() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.labeledErr(ErrClosed)
	}
	return nil
}

// label builds the connection's description without taking the mutex;
// callers must hold it.
func (c *Conn) label() string {
	return string(describe.Append(nil, "connection", c.name, 0))
}

func (c *Conn) labeledErr(err error) error {
	return fmt.Errorf("%s: %w", c.label(), err)
}
