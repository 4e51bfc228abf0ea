package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no error or only nil errors were provided, nil is returned.
// If only one non nil error was provided, it is returned as is.
//
// Returned error implements Cause() and returns the first error of the group.
func Append(errs ...error) error {
	var flat []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if u, ok := e.(unpacker); ok {
			flat = append(flat, u.Unpack()...)
		} else {
			flat = append(flat, e)
		}
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}
	return multiErr(flat)
}

type unpacker interface {
	Unpack() []error
}

// multiErr represents a group of errors. Use Append to create it.
type multiErr []error

func (errs multiErr) Error() string {
	points := make([]string, len(errs))
	for i, err := range errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf(
		"%d errors occurred:\n\t%s\n",
		len(errs), strings.Join(points, "\n\t"))
}

// Unpack returns all errors this group consists of.
func (errs multiErr) Unpack() []error {
	return errs
}

// Cause returns the first error of the group. This is the error that is used
// to represent the whole group, for example to compute its code.
func (errs multiErr) Cause() error {
	return errs[0]
}
