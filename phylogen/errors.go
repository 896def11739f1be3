package phylogen

import "fmt"

// CError is the general error type of the phylogen package. It satisfies
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

// ConfError signals a misconfigured clustering request: a collection too
// small to cluster, an unknown linkage rule, or a Cut given both or
// neither of its parameters.
type ConfError struct {
	CError
}

func newConfError(message string) ConfError {
	return ConfError{CError{message: message, critical: true}}
}
