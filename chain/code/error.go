package code

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Error is a failed check carrying its response code and a JSON payload
type Error struct {
	Code uint32
	Log  string
	Info interface{}
}

func newError(code uint32, info interface{}, format string, args ...interface{}) *Error {
	return &Error{Code: code, Log: fmt.Sprintf(format, args...), Info: info}
}

func (e *Error) Error() string {
	return e.Log
}

// EncodeInfo returns the payload as a JSON string
func (e *Error) EncodeInfo() string {
	if e.Info == nil {
		return ""
	}
	marshaled, err := json.Marshal(e.Info)
	if err != nil {
		panic(err)
	}
	return string(marshaled)
}

// Of returns the response code of err, OK for nil and Internal for uncoded errors
func Of(err error) uint32 {
	if err == nil {
		return OK
	}
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.Code
	}
	return Internal
}

// Cause returns the coded error behind err if there is one
func Cause(err error) (*Error, bool) {
	e, ok := errors.Cause(err).(*Error)
	return e, ok
}

// Recode replaces the code of err according to mapping, keeping the message and payload
func Recode(err error, mapping map[uint32]uint32) error {
	e, ok := Cause(err)
	if !ok {
		return err
	}
	to, ok := mapping[e.Code]
	if !ok {
		return err
	}
	return &Error{Code: to, Log: e.Log, Info: e.Info}
}
