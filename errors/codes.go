package errors

import (
	stderrors "errors"
	"net/http"
)

// Code is the machine readable reason sent back to socket clients in an error frame.
type Code string

const (
	CodeInvalidMessage    Code = "invalid_message"
	CodeValidationFailed  Code = "validation_failed"
	CodeNotFound          Code = "not_found"
	CodeForbidden         Code = "forbidden"
	CodeUnauthorized      Code = "unauthorized"
	CodeConflict          Code = "conflict"
	CodePersistenceFailed Code = "persistence_failed"
	CodeInternal          Code = "internal_error"
)

type mapping struct {
	code   Code
	status int
}

// Ordered: the first sentinel found in the chain wins.
var mappings = []struct {
	err error
	mapping
}{
	{ErrInvalidFrame, mapping{CodeInvalidMessage, http.StatusBadRequest}},
	{ErrUnknownFrame, mapping{CodeInvalidMessage, http.StatusBadRequest}},
	{ErrValidation, mapping{CodeValidationFailed, http.StatusBadRequest}},
	{ErrEmptyContent, mapping{CodeValidationFailed, http.StatusBadRequest}},
	{ErrContentTooLong, mapping{CodeValidationFailed, http.StatusBadRequest}},
	{ErrSelfMessage, mapping{CodeValidationFailed, http.StatusBadRequest}},
	{ErrSelfRequest, mapping{CodeValidationFailed, http.StatusBadRequest}},
	{ErrInvalidCursor, mapping{CodeValidationFailed, http.StatusBadRequest}},
	{ErrInvalidPassword, mapping{CodeValidationFailed, http.StatusBadRequest}},
	{ErrInvalidStatus, mapping{CodeValidationFailed, http.StatusBadRequest}},
	{ErrInvalidVerification, mapping{CodeValidationFailed, http.StatusBadRequest}},
	{ErrUnsupportedAvatar, mapping{CodeValidationFailed, http.StatusUnsupportedMediaType}},
	{ErrAvatarTooLarge, mapping{CodeValidationFailed, http.StatusRequestEntityTooLarge}},
	{ErrInvalidCredentials, mapping{CodeUnauthorized, http.StatusUnauthorized}},
	{ErrInvalidToken, mapping{CodeUnauthorized, http.StatusUnauthorized}},
	{ErrMissingToken, mapping{CodeUnauthorized, http.StatusUnauthorized}},
	{ErrEmailNotVerified, mapping{CodeForbidden, http.StatusForbidden}},
	{ErrForbidden, mapping{CodeForbidden, http.StatusForbidden}},
	{ErrUserNotFound, mapping{CodeNotFound, http.StatusNotFound}},
	{ErrPostNotFound, mapping{CodeNotFound, http.StatusNotFound}},
	{ErrFriendRequestNotFound, mapping{CodeNotFound, http.StatusNotFound}},
	{ErrCompanyNotFound, mapping{CodeNotFound, http.StatusNotFound}},
	{ErrJobNotFound, mapping{CodeNotFound, http.StatusNotFound}},
	{ErrApplicationNotFound, mapping{CodeNotFound, http.StatusNotFound}},
	{ErrUserAlreadyExists, mapping{CodeConflict, http.StatusConflict}},
	{ErrAlreadyFriends, mapping{CodeConflict, http.StatusConflict}},
	{ErrRequestAlreadyPending, mapping{CodeConflict, http.StatusConflict}},
	{ErrRequestNotPending, mapping{CodeConflict, http.StatusConflict}},
	{ErrAlreadyApplied, mapping{CodeConflict, http.StatusConflict}},
	{ErrJobClosed, mapping{CodeConflict, http.StatusConflict}},
	{ErrPersistence, mapping{CodePersistenceFailed, http.StatusInternalServerError}},
}

func lookup(err error) mapping {
	for _, m := range mappings {
		if stderrors.Is(err, m.err) {
			return m.mapping
		}
	}
	return mapping{CodeInternal, http.StatusInternalServerError}
}

// CodeOf returns the socket error code for err.
func CodeOf(err error) Code {
	return lookup(err).code
}

// HTTPStatus returns the HTTP status code for err.
func HTTPStatus(err error) int {
	return lookup(err).status
}

// PublicMessage hides internal failures behind a generic text.
// Storage failures keep their code but lose the driver detail.
func PublicMessage(err error) string {
	switch lookup(err).code {
	case CodeInternal:
		return "internal error"
	case CodePersistenceFailed:
		return ErrPersistence.Error()
	}
	return err.Error()
}
