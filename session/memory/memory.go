// Package memory provides an embedded, scriptable session backend.
//
// It is the backend used by tests and by pqsessiond when no external engine
// is configured. Queries must be scripted ahead of time; transaction
// control verbs always succeed with an empty result so transaction
// lifecycles work without scripting.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/veldtlabs/pqbin/result"
	"github.com/veldtlabs/pqbin/session"
)

const argSep = "\x1f"

// Backend is an in-memory session.Backend. Safe for concurrent use.
type Backend struct {
	mu       sync.Mutex
	results  map[string]*result.Result
	vars     map[string]string
	outgoing []string
	drained  bool
	received []string
	ended    bool
}

var _ session.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{
		results: make(map[string]*result.Result),
		vars:    make(map[string]string),
	}
}

// Script registers the result for an exact query with no parameters.
func (b *Backend) Script(query string, res *result.Result) {
	b.ScriptArgs(query, nil, res)
}

// ScriptArgs registers the result for an exact query and parameter list.
func (b *Backend) ScriptArgs(query string, args []string, res *result.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results[scriptKey(query, args)] = res
}

// QueueCopyLine appends a line to the outgoing copy stream and reopens it
// if a previous read already drained it.
func (b *Backend) QueueCopyLine(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outgoing = append(b.outgoing, line)
	b.drained = false
}

// Received returns the copy lines written to the backend so far.
func (b *Backend) Received() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.received...)
}

func (b *Backend) Exec(ctx context.Context, query string, args []string) (*result.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if isControlVerb(query) {
		return result.Empty(), nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	res, ok := b.results[scriptKey(query, args)]
	if !ok {
		return nil, session.ErrUnknownQuery
	}
	return res, nil
}

func (b *Backend) GetVar(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.vars[name]
	if !ok {
		return "", session.ErrVarNotFound
	}
	return v, nil
}

func (b *Backend) SetVar(ctx context.Context, name, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.vars[name] = value
	return nil
}

func (b *Backend) ReadCopyLine(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.outgoing) == 0 {
		if b.drained {
			return "", false, session.ErrNoCopy
		}
		b.drained = true
		return "", false, nil
	}
	line := b.outgoing[0]
	b.outgoing = b.outgoing[1:]
	return line, true, nil
}

func (b *Backend) WriteCopyLine(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ended {
		return session.ErrCopyClosed
	}
	b.received = append(b.received, line)
	return nil
}

func (b *Backend) EndCopyWrite(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ended {
		return session.ErrCopyClosed
	}
	b.ended = true
	return nil
}

func scriptKey(query string, args []string) string {
	if len(args) == 0 {
		return query
	}
	return query + argSep + strings.Join(args, argSep)
}

// isControlVerb reports whether query is a transaction control statement.
// Matching is on the first word, case-insensitively.
func isControlVerb(query string) bool {
	word := query
	if i := strings.IndexAny(word, " \t\n"); i >= 0 {
		word = word[:i]
	}
	switch strings.ToUpper(strings.TrimSpace(word)) {
	case "BEGIN", "COMMIT", "ROLLBACK", "SAVEPOINT", "RELEASE", "END":
		return true
	}
	return false
}
