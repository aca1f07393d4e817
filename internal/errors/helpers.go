package errors

import (
	"errors"
)

// As reports whether err carries an *Error and stores the outermost one.
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// codeOf maps nil to OK and any error without a Code to Internal.
func codeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// GetMeta returns the metadata of the outermost *Error in err, if any.
func GetMeta(err error) map[string]interface{} {
	var e *Error
	if err == nil || !errors.As(err, &e) {
		return nil
	}
	return e.Meta
}

func IsNotFound(err error) bool           { return codeOf(err) == CodeNotFound }
func IsInvalidArgument(err error) bool    { return codeOf(err) == CodeInvalidArgument }
func IsAlreadyExists(err error) bool      { return codeOf(err) == CodeAlreadyExists }
func IsInternal(err error) bool           { return codeOf(err) == CodeInternal }
func IsUnavailable(err error) bool        { return codeOf(err) == CodeUnavailable }
func IsFailedPrecondition(err error) bool { return codeOf(err) == CodeFailedPrecondition }
func IsDataLoss(err error) bool           { return codeOf(err) == CodeDataLoss }
func IsCanceled(err error) bool           { return codeOf(err) == CodeCanceled }
