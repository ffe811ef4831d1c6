package app

import (
	"errors"
	"fmt"

	"isucari/pkg/httperror"
)

var (
	ErrInvalidCursor = errors.New("invalid cursor")
	ErrNotFound      = errors.New("not found")

	ErrSellerNotFound   = fmt.Errorf("seller %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	ErrCategoryTooDeep = errors.New("category hierarchy too deep")
)

// CursorError names the query parameter that failed validation.
type CursorError struct {
	Param string
}

func (e *CursorError) Error() string {
	return e.Param + " param error"
}

func (e *CursorError) Is(target error) bool {
	return target == ErrInvalidCursor
}

// toHTTPError maps pipeline errors onto the response taxonomy. Store failures
// keep their cause for logging but answer with a generic message.
func toHTTPError(prefix string, err error) *httperror.Error {
	switch {
	case errors.Is(err, ErrInvalidCursor):
		return httperror.BadRequest(prefix+".invalid_cursor", err.Error(), nil)
	case errors.Is(err, ErrSellerNotFound):
		return httperror.NotFound(prefix+".seller_not_found", ErrSellerNotFound.Error(), nil)
	case errors.Is(err, ErrCategoryNotFound):
		return httperror.NotFound(prefix+".category_not_found", ErrCategoryNotFound.Error(), nil)
	case errors.Is(err, ErrUserNotFound):
		return httperror.NotFound(prefix+".user_not_found", ErrUserNotFound.Error(), nil)
	default:
		return httperror.InternalServerError(prefix+".failed", "db error", nil).Wrap(err)
	}
}
