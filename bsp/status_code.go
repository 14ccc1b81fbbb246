package bsp

import "strconv"

// StatusCode is the outcome of a compile, run, or test request.
type StatusCode int

const (
	StatusOK        StatusCode = 1
	StatusError     StatusCode = 2
	StatusCancelled StatusCode = 3
)

func (s StatusCode) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusError:
		return "ERROR"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "StatusCode(" + strconv.Itoa(int(s)) + ")"
	}
}
