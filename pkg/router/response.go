package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/droplabz/backend/pkg/errorx"
	"github.com/droplabz/backend/pkg/xcontext"
)

type response struct {
	Code    int64  `json:"code"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) (int, response) {
	errx := errorx.Error{}
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	return HTTPStatus(errx.Code), response{
		Code:    int64(errx.Code),
		Error:   errx.Kind(),
		Message: errx.Message,
	}
}

// HTTPStatus maps an error code to the status of the HTTP response.
func HTTPStatus(code errorx.Code) int {
	switch code {
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.AlreadyExists, errorx.DuplicateEntry:
		return http.StatusConflict
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	case errorx.ExternalDependency:
		return http.StatusBadGateway
	case errorx.Unavailable:
		return http.StatusServiceUnavailable
	case errorx.NotImplemented:
		return http.StatusNotImplemented
	}

	switch code.Category() {
	case errorx.ValidationError, errorx.CapacityError, errorx.EligibilityError:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func writeResponse(ctx context.Context, w http.ResponseWriter) {
	status := http.StatusOK
	var resp response
	if err := xcontext.Error(ctx); err != nil {
		status, resp = newErrorResponse(err)
	} else {
		resp = newResponse(xcontext.Response(ctx))
	}

	if err := WriteJSON(w, status, resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func WriteJSON(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
