package errors

import "fmt"

// Wrap prefixes err with msg and keeps it in the chain, so a wrapped
// configuration sentinel still satisfies IsConfiguration and maps to exit
// code 2. It returns nil for a nil err.
//
//	cursor, err := sequence.NewCursor(seq)
//	if err != nil {
//	    return nil, errors.Wrap(err, "build TurnKnob axis")
//	}
//
// The engine and the catalog add their own context; the CLI adds the
// command. Deeper layers return sentinels as they are.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted message, typically naming the axis or
// category at fault:
//
//	return errors.Wrapf(ErrInvalidAxis, "axis %s has %d positions", label, n)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, err)
}
