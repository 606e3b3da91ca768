package blob

import "errors"

var (
	ErrNotFound  = errors.New("blob: not found")
	ErrInvalidID = errors.New("blob: invalid payload id")
	ErrMismatch  = errors.New("blob: payload does not match id")
	ErrImmutable = errors.New("blob: immutable payload mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
