package botkit

import (
	"errors"
	"fmt"
)

// Ошибка платформы. Transient означает, что операцию можно повторить
type PlatformError struct {
	Op        string
	Transient bool
	Err       error
}

func (e *PlatformError) Error() string {
	kind := "rejected"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("telegram %s %s: %v", e.Op, kind, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

func IsTransient(err error) bool {
	var pErr *PlatformError
	return errors.As(err, &pErr) && pErr.Transient
}
