package value

import "github.com/pkg/errors"

// ErrDomain is returned when an operation has no finite real result for its operands,
// e.g. 0 ** -1, (-1) ** 0.5 or log(0). callers match it with errors.Is.
var ErrDomain = errors.New("numeric domain error")

func domainErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrDomain, format, args...)
}
