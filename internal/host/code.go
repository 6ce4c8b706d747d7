// Package host models the server runtime the filter stages plug into:
// stage control codes, the per-request arena, response framing, and the
// stage pipeline itself.
package host

import (
	"net/http"
	"strconv"
)

// Code is the control code a stage handler returns to the host.
// Values of 100 and above are HTTP status codes.
type Code int

const (
	// OK means proceed to the next stage.
	OK Code = 0

	// Error means the stage failed internally; the host answers with a
	// server error.
	Error Code = -1

	// Declined means the stage has no opinion; other stages decide.
	Declined Code = -5
)

// Status returns the code that short-circuits the request with an HTTP
// status.
func Status(status int) Code {
	return Code(status)
}

// IsStatus reports whether c carries an HTTP status.
func (c Code) IsStatus() bool {
	return c >= 100
}

func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case Error:
		return "error"
	case Declined:
		return "declined"
	}
	if c.IsStatus() {
		return strconv.Itoa(int(c)) + " " + http.StatusText(int(c))
	}
	return "code(" + strconv.Itoa(int(c)) + ")"
}
