package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoDatabase      = errors.New("no database configured")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// ConnectivityError: the store could not be reached, authenticated or queried.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// SchemaError aborts an ingestion before anything is written.
type SchemaError struct {
	Missing []string
	Detail  string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema")
	if len(e.Missing) > 0 {
		b.WriteString(": missing column for ")
		b.WriteString(strings.Join(e.Missing, ", "))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// WriteError means ReplaceAll did not apply; the table keeps its previous rows.
type WriteError struct {
	Rows int
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("replace %d listings: %v", e.Rows, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FormatError records a cell that could not be coerced and was replaced by
// its default. It is reported, never returned as a failure.
type FormatError struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func (e FormatError) Error() string {
	return fmt.Sprintf("row %d: %s: cannot parse %q, using default", e.Row, e.Field, e.Value)
}

func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}
