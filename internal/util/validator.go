package util

import (
	"fmt"
	"net/url"
	"strconv"
	"unicode/utf8"

	"textbook_backend/internal/model"
)

// ValidationError rejects a single request argument with a message meant for
// the client-side scripts that call the event endpoint. It is recovered at
// the request boundary and never turns into a server error.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Predicate reports whether a raw argument value is acceptable.
type Predicate func(value string) bool

// MessageFunc builds the rejection message for a value a Predicate refused.
type MessageFunc func(value string) string

// Arg fetches args[name]. A missing argument yields the default when one is
// given and "Missing argument {name}." otherwise. When valid is non-nil and
// rejects the value, message formats the failure.
func Arg(args url.Values, name string, valid Predicate, message MessageFunc, def ...string) (string, error) {
	if !args.Has(name) {
		if len(def) > 0 {
			return def[0], nil
		}
		return "", NewValidationError("Missing argument %s.", name)
	}

	value := args.Get(name)
	if valid != nil && !valid(value) {
		return "", &ValidationError{Message: message(value)}
	}
	return value, nil
}

// StringArg validates against a string column's maximum length. Varchar
// limits count characters, not bytes, so the length is measured in runes.
func StringArg(args url.Values, name string, maxLen int, def ...string) (string, error) {
	return Arg(args, name,
		func(v string) bool { return utf8.RuneCountInString(v) <= maxLen },
		func(v string) string {
			return fmt.Sprintf("Argument %s length %d exceeds the maximum length of %d.", name, utf8.RuneCountInString(v), maxLen)
		},
		def...)
}

// BoolArg validates against a CharBool column. The accepted vocabulary is
// fixed: true/T, false/F, and the empty string for unset.
func BoolArg(args url.Values, name string, def ...model.CharBool) (model.CharBool, error) {
	if !args.Has(name) {
		if len(def) > 0 {
			return def[0], nil
		}
		return model.CharBool{}, NewValidationError("Missing argument %s.", name)
	}

	switch value := args.Get(name); value {
	case "true", "T":
		return model.TrueChar(true), nil
	case "false", "F":
		return model.TrueChar(false), nil
	case "":
		return model.CharBool{}, nil
	default:
		return model.CharBool{}, NewValidationError("Argument %s supplied an invalid boolean value of %s.", name, value)
	}
}

// IntArg validates against an integer column.
func IntArg(args url.Values, name string, def ...int) (int, error) {
	if !args.Has(name) {
		if len(def) > 0 {
			return def[0], nil
		}
		return 0, NewValidationError("Missing argument %s.", name)
	}

	value, err := strconv.Atoi(args.Get(name))
	if err != nil {
		return 0, NewValidationError("Unable to convert argument %s to an integer.", name)
	}
	return value, nil
}

// FloatArg validates against a float column.
func FloatArg(args url.Values, name string, def ...float64) (float64, error) {
	if !args.Has(name) {
		if len(def) > 0 {
			return def[0], nil
		}
		return 0, NewValidationError("Missing argument %s.", name)
	}

	value, err := strconv.ParseFloat(args.Get(name), 64)
	if err != nil {
		return 0, NewValidationError("Unable to convert argument %s to an float.", name)
	}
	return value, nil
}
