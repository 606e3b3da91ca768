package session

import "errors"

var (
	ErrUnknownQuery = errors.New("session: unknown query")
	ErrVarNotFound  = errors.New("session: variable not found")
	ErrNoCopy       = errors.New("session: no copy data available")
	ErrCopyClosed   = errors.New("session: copy stream already ended")
)

func IsUnknownQuery(err error) bool { return errors.Is(err, ErrUnknownQuery) }
