package store

import (
	"errors"
	"fmt"
)

// InvalidPageError reports a page number outside the valid range.
type InvalidPageError struct {
	Page   int
	Reason string
}

// Error implements the error interface.
func (e *InvalidPageError) Error() string {
	return fmt.Sprintf("invalid page number %d: %s", e.Page, e.Reason)
}

// IsInvalidPage reports whether err is (or wraps) an InvalidPageError.
func IsInvalidPage(err error) bool {
	var pe *InvalidPageError
	return errors.As(err, &pe)
}

// PageCount returns the number of pages needed for recordCount records at
// perPage records per page. A partial trailing page counts.
func PageCount(perPage, recordCount int) int {
	if perPage < 1 {
		return 0
	}
	quotient, remainder := recordCount/perPage, recordCount%perPage
	if remainder > 0 {
		return quotient + 1
	}
	return quotient
}

// CheckPage validates a requested 1-based page number against the total.
// The first page is always valid, even when there are no records.
func CheckPage(page, totalPages int) error {
	if page == 1 {
		return nil
	}
	if page <= 0 {
		return &InvalidPageError{Page: page, Reason: "page number must be positive"}
	}
	if page > totalPages {
		return &InvalidPageError{
			Page:   page,
			Reason: fmt.Sprintf("greater than the total number of pages (%d)", totalPages),
		}
	}
	return nil
}
