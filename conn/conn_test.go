package conn

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/veldtlabs/pqbin/result"
	"github.com/veldtlabs/pqbin/session/memory"
	"github.com/veldtlabs/pqbin/transaction"
)

func newConn(t *testing.T, name string) (*Conn, *memory.Backend) {
	t.Helper()
	b := memory.New()
	c, err := New(b, Options{Name: name})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, b
}

func TestNew_RequiresBackend(t *testing.T) {
	if _, err := New(nil, Options{}); err == nil {
		t.Fatalf("expected error for nil backend")
	}
}

func TestConn_Named(t *testing.T) {
	c, _ := newConn(t, "db1")
	if c.ClassName() != "connection" || c.Name() != "db1" {
		t.Fatalf("Named = %q %q", c.ClassName(), c.Name())
	}
}

func TestBegin_RegistersAndCommitUnregisters(t *testing.T) {
	ctx := context.Background()
	c, _ := newConn(t, "db1")

	tx, err := c.Begin(ctx, "tx-1")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if tx.Status() != transaction.StatusActive {
		t.Fatalf("status = %v", tx.Status())
	}

	// Only one transaction may be registered at a time.
	_, err = c.Begin(ctx, "tx-2")
	if !errors.Is(err, ErrTransactionActive) {
		t.Fatalf("second Begin: expected ErrTransactionActive, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "transaction 'tx-1'") {
		t.Fatalf("error does not name the active transaction: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if tx.Status() != transaction.StatusCommitted {
		t.Fatalf("status after commit = %v", tx.Status())
	}

	// The slot is free again.
	tx2, err := c.Begin(ctx, "tx-2")
	if err != nil {
		t.Fatalf("Begin after commit: %v", err)
	}
	if err := tx2.Rollback(ctx); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
}

func TestClose_FailsWithActiveTransaction(t *testing.T) {
	ctx := context.Background()
	c, _ := newConn(t, "db1")
	tx, err := c.Begin(ctx, "tx-1")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := c.Close(); !errors.Is(err, ErrTransactionActive) {
		t.Fatalf("Close: expected ErrTransactionActive, got %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close after rollback: %v", err)
	}
}

func TestClosedConn_RejectsOperations(t *testing.T) {
	ctx := context.Background()
	c, _ := newConn(t, "db1")
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := c.Exec(ctx, "BEGIN"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Exec on closed: %v", err)
	}
	if _, err := c.Begin(ctx, "tx"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Begin on closed: %v", err)
	}
	if err := c.SetVar(ctx, "a", "b"); !errors.Is(err, ErrClosed) {
		t.Fatalf("SetVar on closed: %v", err)
	}
}

func TestTransaction_ExecThroughGate(t *testing.T) {
	ctx := context.Background()
	c, b := newConn(t, "db1")
	b.Script("SELECT payload FROM blobs",
		&result.Result{Columns: []string{"payload"}, Rows: [][]string{{`\x01`}}})

	tx, err := c.Begin(ctx, "reader")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	res, err := tx.Exec(ctx, "SELECT payload FROM blobs")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if v, _ := res.One(); v != `\x01` {
		t.Fatalf("value = %q", v)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestTransaction_ExecPrepared(t *testing.T) {
	ctx := context.Background()
	c, b := newConn(t, "db1")
	q := "SELECT payload FROM blobs WHERE id = $1"
	b.ScriptArgs(q, []string{"7"}, &result.Result{Rows: [][]string{{`\xff`}}})

	if err := c.Prepare("fetch_blob", q); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	tx, err := c.Begin(ctx, "reader")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer tx.Rollback(ctx)

	res, err := tx.ExecPrepared(ctx, "fetch_blob", []string{"7"})
	if err != nil {
		t.Fatalf("ExecPrepared: %v", err)
	}
	if v, _ := res.One(); v != `\xff` {
		t.Fatalf("value = %q", v)
	}

	_, err = tx.ExecPrepared(ctx, "no_such_statement", nil)
	if !errors.Is(err, ErrUnknownPrepared) {
		t.Fatalf("expected ErrUnknownPrepared, got %v", err)
	}
}

func TestTransaction_VarsThroughGate(t *testing.T) {
	ctx := context.Background()
	c, _ := newConn(t, "db1")
	tx, err := c.Begin(ctx, "vars")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SetVar(ctx, "search_path", "public"); err != nil {
		t.Fatalf("SetVar: %v", err)
	}
	got, err := tx.GetVar(ctx, "search_path")
	if err != nil {
		t.Fatalf("GetVar: %v", err)
	}
	if got != "public" {
		t.Fatalf("GetVar = %q", got)
	}
	// Variables set through the gate are session-level: visible on the
	// connection too.
	got, err = c.GetVar(ctx, "search_path")
	if err != nil || got != "public" {
		t.Fatalf("conn GetVar = %q, %v", got, err)
	}
}

func TestTransaction_CopyThroughGate(t *testing.T) {
	ctx := context.Background()
	c, b := newConn(t, "db1")
	b.QueueCopyLine("1\tfoo")
	b.QueueCopyLine("2\tbar")

	tx, err := c.Begin(ctx, "copier")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer tx.Rollback(ctx)

	var lines []string
	for {
		line, ok, err := tx.ReadCopyLine(ctx)
		if err != nil {
			t.Fatalf("ReadCopyLine: %v", err)
		}
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	if len(lines) != 2 {
		t.Fatalf("read %d lines, want 2", len(lines))
	}

	if err := tx.WriteCopyLine(ctx, "3\tbaz"); err != nil {
		t.Fatalf("WriteCopyLine: %v", err)
	}
	if err := tx.EndCopyWrite(ctx); err != nil {
		t.Fatalf("EndCopyWrite: %v", err)
	}
	if got := b.Received(); len(got) != 1 || got[0] != "3\tbaz" {
		t.Fatalf("Received = %v", got)
	}
}
