package endpoint

import (
	"fmt"
	"io"

	"github.com/niels/rawhttpd/pkg/logging"
	"github.com/niels/rawhttpd/pkg/store"
	"github.com/niels/rawhttpd/pkg/wire"
	"github.com/rs/zerolog"
)

// Files serves GET and POST on /files/<name> from a byte store.
//
// A failed read is answered with 404 whatever the cause. A failed write is
// returned to the caller and no response is sent.
type Files struct {
	store  store.ByteStore
	logger zerolog.Logger
}

// NewFiles creates a files handler backed by s
func NewFiles(s store.ByteStore) *Files {
	return &Files{
		store:  s,
		logger: logging.WithComponent("files"),
	}
}

// Serve implements router.Handler
func (f *Files) Serve(w io.Writer, req *wire.Request) error {
	switch req.Method() {
	case "GET":
		return f.get(w, req)
	case "POST":
		return f.post(w, req)
	default:
		f.logger.Debug().Str("method", req.Method()).Msg("Unsupported method")
		return NotFound(w, req)
	}
}

func (f *Files) get(w io.Writer, req *wire.Request) error {
	data, err := f.store.Read(req.Arg())
	if err != nil {
		f.logger.Debug().Err(err).Str("name", req.Arg()).Msg("Read failed, answering 404")
		return NotFound(w, req)
	}
	return write(w, withBody(wire.StatusOK, data, contentTypeBinary))
}

func (f *Files) post(w io.Writer, req *wire.Request) error {
	if err := f.store.Write(req.Arg(), req.Body()); err != nil {
		return fmt.Errorf("failed to store upload: %w", err)
	}
	f.logger.Debug().
		Str("name", req.Arg()).
		Int("bytes", req.ContentLength()).
		Msg("Stored upload")
	return write(w, wire.NewResponse(wire.StatusCreated, nil))
}
