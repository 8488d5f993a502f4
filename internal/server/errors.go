package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/huffviz/pkg/artifact"
	"github.com/matzehuels/huffviz/pkg/codec"
	herrors "github.com/matzehuels/huffviz/pkg/errors"
	"github.com/matzehuels/huffviz/pkg/huffman"
)

type errorResponse struct {
	Error string       `json:"error"`
	Code  herrors.Code `json:"code"`
}

// classify attaches a code to errors that do not carry one yet.
func classify(err error) error {
	if herrors.GetCode(err) != "" {
		return err
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return herrors.Wrap(herrors.ErrCodeTooLarge, err, "request body exceeds %d bytes", tooLarge.Limit)
	case errors.Is(err, artifact.ErrNotFound):
		return herrors.Wrap(herrors.ErrCodeFileNotFound, err, "file not found")
	case errors.Is(err, huffman.ErrEmptyInput):
		return herrors.Wrap(herrors.ErrCodeEmptyInput, err, "input is empty")
	case errors.Is(err, codec.ErrInvalidHeader), errors.Is(err, codec.ErrTruncated):
		return herrors.Wrap(herrors.ErrCodeInvalidInput, err, "not a huffviz compressed file")
	}
	return herrors.Wrap(herrors.ErrCodeInternal, err, "internal error")
}

func statusFor(code herrors.Code) int {
	switch code {
	case herrors.ErrCodeNotFound, herrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case herrors.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case herrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case herrors.ErrCodeInternal:
		return http.StatusInternalServerError
	case "":
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = classify(err)
	code := herrors.GetCode(err)
	status := statusFor(code)

	s.hooks.OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestIDFromContext(r.Context()))
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: herrors.UserMessage(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func notFound(path string) error {
	return herrors.New(herrors.ErrCodeNotFound, "no route for %s", path)
}
