package http

import (
	"errors"
	"net/http"
	"strings"

	"proofparcel/internal/adapters/in/http/api"
	"proofparcel/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// KindInvalidInput tags malformed requests and constructor validation failures.
const KindInvalidInput = "InvalidInput"

func getKindStatuses() map[errs.Kind]int {
	return map[errs.Kind]int{
		errs.KindUnauthorized:    http.StatusForbidden,
		errs.KindNotFound:        http.StatusNotFound,
		errs.KindInvalidState:    http.StatusConflict,
		errs.KindAlreadyReleased: http.StatusConflict,
		errs.KindAlreadyMinted:   http.StatusConflict,
		errs.KindOtpNotFound:     http.StatusUnprocessableEntity,
		errs.KindOtpExpired:      http.StatusUnprocessableEntity,
		errs.KindOtpMismatch:     http.StatusUnprocessableEntity,
		errs.KindInvalidAmount:   http.StatusBadRequest,
		errs.KindInvalidParty:    http.StatusBadRequest,
	}
}

// toAPIError classifies err. Domain kinds come first because a joined
// validation error may also carry one.
func toAPIError(err error) api.Error {
	if kind, ok := errs.KindOf(err); ok {
		code, known := getKindStatuses()[kind]
		if !known {
			code = http.StatusInternalServerError
		}
		return api.Error{Code: code, Kind: string(kind), Message: domainMessage(err)}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return api.Error{Code: httpErr.Code, Kind: httpKind(httpErr.Code), Message: httpMessage(httpErr)}
	}

	if errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange) {
		return api.Error{Code: http.StatusBadRequest, Kind: KindInvalidInput, Message: err.Error()}
	}

	return api.Error{Code: http.StatusInternalServerError, Kind: "Internal", Message: "internal error"}
}

// domainMessage is the text after the kind tag.
func domainMessage(err error) string {
	var domainErr *errs.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

func httpKind(code int) string {
	switch code {
	case http.StatusBadRequest:
		return KindInvalidInput
	case http.StatusNotFound:
		return string(errs.KindNotFound)
	default:
		return strings.ReplaceAll(http.StatusText(code), " ", "")
	}
}

func httpMessage(err *echo.HTTPError) string {
	if msg, ok := err.Message.(string); ok {
		return msg
	}
	return http.StatusText(err.Code)
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	body := toAPIError(err)
	if body.Code >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(body.Code)
	} else {
		writeErr = c.JSON(body.Code, body)
	}
	if writeErr != nil {
		s.logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", writeErr)
	}
}
