package main

import (
	"net/http"

	errs "github.com/CodedInternet/gominer/onboard/errors"
	"github.com/go-chi/render"
	"github.com/pkg/errors"
)

// ErrResponse renders an error as json with a matching status code.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func newErrResponse(code int, err error) *ErrResponse {
	e := &ErrResponse{
		Err:            err,
		HTTPStatusCode: code,
		StatusText:     http.StatusText(code),
	}
	if err != nil {
		e.ErrorText = err.Error()
	}
	return e
}

func ErrInvalidRequest(err error) render.Renderer {
	return newErrResponse(http.StatusBadRequest, err)
}

func ErrQueueFull(err error) render.Renderer {
	return newErrResponse(http.StatusServiceUnavailable, err)
}

func ErrNotFound(err error) render.Renderer {
	return newErrResponse(http.StatusNotFound, err)
}

func ErrInternal(err error) render.Renderer {
	return newErrResponse(http.StatusInternalServerError, err)
}

// errorFor picks the renderer for an error coming back from the conductor.
func errorFor(err error) render.Renderer {
	var (
		invalid errs.InvalidCommandError
		verb    errs.UnknownVerbError
		mode    errs.UnknownModeError
	)

	switch {
	case errors.Is(err, errs.ErrQueueFull):
		return ErrQueueFull(err)
	case errors.As(err, &invalid):
		return ErrInvalidRequest(err)
	case errors.As(err, &verb), errors.As(err, &mode):
		return ErrNotFound(err)
	default:
		return ErrInternal(err)
	}
}
