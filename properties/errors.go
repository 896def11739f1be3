package properties

import "fmt"

// CError is the general error type of the properties package. It satisfies
// soprano.Error. The name is not Error so that embedding it in the more
// specific error kinds below promotes the Error method instead of shadowing
// it with a field.
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

// ConfError signals a misconfiguration (unknown property, bad arity,
// aggregate/per-structure mismatch). These always abort: no partial result
// is returned alongside one.
type ConfError struct {
	CError
}

func newConfError(message string) ConfError {
	return ConfError{CError{message: message, critical: true}}
}

// EvalError signals that a property failed, or is undefined, for one
// particular structure. Whether it aborts the whole application or just
// marks the slot as missing depends on the Engine policy.
type EvalError struct {
	CError
	index int
}

// StructureIndex returns the collection index of the structure the
// evaluation failed on, or -1 if the failure wasn't tied to one.
func (err EvalError) StructureIndex() int { return err.index }

func newEvalError(index int, message string) EvalError {
	return EvalError{CError{message: message, critical: false}, index}
}

// errDecorate is a helper function that asserts that the error implements
// soprano.Error (a Decorate method) and decorates it with the caller's name
// before returning it. Errors without Decorate are returned untouched.
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
