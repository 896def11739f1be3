package genes

import "fmt"

// CError is the general error type of the genes package. It satisfies
// soprano.Error. The name is not Error so that embedding it in ConfError
// promotes the Error method instead of shadowing it with a field.
type CError struct {
	message  string
	deco     []string
	critical bool
}

func (err CError) Error() string {
	return fmt.Sprintf("%s", err.message)
}

// Decorate adds the dec string to the decoration slice of strings of the
// error, and returns the resulting slice.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or can be ignored.
func (err CError) Critical() bool { return err.critical }

// ConfError signals a misconfigured gene or distance request (negative
// weight, arity mismatch, bad metric, ill-formed equivalence operator).
type ConfError struct {
	CError
}

func newConfError(message string) ConfError {
	return ConfError{CError{message: message, critical: true}}
}

// errDecorate is a helper function that asserts that the error implements
// soprano.Error (a Decorate method) and decorates it with the caller's
// name before returning it. Errors without Decorate are returned
// untouched.
func errDecorate(err error, caller string) error {
	type decorator interface {
		Decorate(string) []string
	}
	err2, ok := err.(decorator)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err
}
