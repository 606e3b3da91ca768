// Package result holds the tabular outcome of a query execution.
//
// Values are the text-mode representations the backend produced; binary
// columns arrive hex-escaped and are decoded with the bytea package.
package result

import "fmt"

// Result is an immutable-by-convention snapshot of a query's output.
//
// JSON note: the zero Result marshals as {"columns":null,"rows":null}.
type Result struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Empty returns a result with no columns and no rows, the outcome of
// commands that produce no data (BEGIN, SET, and friends).
func Empty() *Result { return &Result{} }

// Len returns the number of rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Value returns the text value at (row, col).
func (r *Result) Value(row, col int) (string, error) {
	if r == nil || row < 0 || row >= len(r.Rows) {
		return "", fmt.Errorf("result: row %d out of range", row)
	}
	if col < 0 || col >= len(r.Rows[row]) {
		return "", fmt.Errorf("result: column %d out of range in row %d", col, row)
	}
	return r.Rows[row][col], nil
}

// One returns the single value of a single-row, single-column result.
func (r *Result) One() (string, error) {
	if r.Len() != 1 || len(r.Rows[0]) != 1 {
		return "", fmt.Errorf("result: expected exactly one value, have %d row(s)", r.Len())
	}
	return r.Rows[0][0], nil
}
