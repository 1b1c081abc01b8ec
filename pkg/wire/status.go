package wire

import "strconv"

// Status is an HTTP response status. Only the codes the server produces are
// defined.
type Status int

const (
	// StatusOK is returned for successful reads and the static routes
	StatusOK Status = 200
	// StatusCreated is returned after a file upload
	StatusCreated Status = 201
	// StatusNotFound is returned for unknown routes and unreadable files
	StatusNotFound Status = 404
)

var statusReasons = map[Status]string{
	StatusOK:       "OK",
	StatusCreated:  "Created",
	StatusNotFound: "Not Found",
}

// Code returns the numeric status code
func (s Status) Code() int {
	return int(s)
}

// Reason returns the reason phrase, or an empty string for unknown codes
func (s Status) Reason() string {
	return statusReasons[s]
}

// Text returns the status as it appears on the status line, e.g. "200 OK"
func (s Status) Text() string {
	return strconv.Itoa(int(s)) + " " + s.Reason()
}

func (s Status) String() string {
	return s.Text()
}
