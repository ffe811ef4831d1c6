package app

import (
	"strconv"
	"time"
)

const (
	cursorParamItemID    = "item_id"
	cursorParamCreatedAt = "created_at"
)

// PaginationCursor is the (id, created_at) of the last item on the previous page.
// The zero value means "first page".
type PaginationCursor struct {
	ItemID    int64
	CreatedAt int64 // epoch milliseconds
}

func (c PaginationCursor) IsZero() bool {
	return c.ItemID == 0 && c.CreatedAt == 0
}

// CreatedAtTime is always in UTC so the bound does not shift with the
// process time zone when compared against timestamp columns.
func (c PaginationCursor) CreatedAtTime() time.Time {
	return time.UnixMilli(c.CreatedAt).UTC()
}

// ParseCursor validates the raw item_id and created_at query values.
// Both must be positive integers, or both absent. A half cursor is rejected
// since it cannot address a position in the (created_at, id) order.
//
// sent reports whether a key appeared in the query string; a key sent with an
// empty value ("?item_id=") is malformed, not absent. A nil sent treats only
// non-empty values as present.
func ParseCursor(rawItemID, rawCreatedAt string, sent func(key string) bool) (PaginationCursor, error) {
	var cursor PaginationCursor

	present := func(key, raw string) bool {
		return raw != "" || (sent != nil && sent(key))
	}

	if present(cursorParamItemID, rawItemID) {
		id, err := parsePositive(rawItemID)
		if err != nil {
			return PaginationCursor{}, &CursorError{Param: cursorParamItemID}
		}
		cursor.ItemID = id
	}

	if present(cursorParamCreatedAt, rawCreatedAt) {
		createdAt, err := parsePositive(rawCreatedAt)
		if err != nil {
			return PaginationCursor{}, &CursorError{Param: cursorParamCreatedAt}
		}
		cursor.CreatedAt = createdAt
	}

	switch {
	case cursor.ItemID > 0 && cursor.CreatedAt == 0:
		return PaginationCursor{}, &CursorError{Param: cursorParamCreatedAt}
	case cursor.ItemID == 0 && cursor.CreatedAt > 0:
		return PaginationCursor{}, &CursorError{Param: cursorParamItemID}
	}

	return cursor, nil
}

func parsePositive(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}
