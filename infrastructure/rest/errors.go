package rest

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"

	"social-club/errors"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Warn("Unable to write error response", "error", err)
		}
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var he *echo.HTTPError
	if stderrors.As(err, &he) {
		return he.Code, ErrorResponse{Code: codeForStatus(he.Code), Message: fmt.Sprint(he.Message)}
	}
	return errors.HTTPStatus(err), ErrorResponse{Code: errors.CodeOf(err), Message: errors.PublicMessage(err)}
}

func codeForStatus(status int) errors.Code {
	switch {
	case status == http.StatusUnauthorized:
		return errors.CodeUnauthorized
	case status == http.StatusForbidden:
		return errors.CodeForbidden
	case status == http.StatusNotFound, status == http.StatusMethodNotAllowed:
		return errors.CodeNotFound
	case status == http.StatusConflict:
		return errors.CodeConflict
	case status < http.StatusInternalServerError:
		return errors.CodeValidationFailed
	default:
		return errors.CodeInternal
	}
}
