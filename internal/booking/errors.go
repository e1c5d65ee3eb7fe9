package booking

import "errors"

// ErrSlotTaken is returned when the requested (date, time) slot is already
// occupied at commit time.
var ErrSlotTaken = errors.New("time slot no longer available")

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// IsValidation reports whether err is a request-validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
