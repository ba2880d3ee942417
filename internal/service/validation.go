package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/maxviazov/openapi-skeleton/internal/paginate"
)

// ParsePage turns raw page[number]/page[size] values into a Page, reporting
// malformed values as field errors.
func ParsePage(number, size string) (paginate.Page, error) {
	p, err := paginate.ParsePage(number, size)
	if err != nil {
		var pe *paginate.ParamError
		if errors.As(err, &pe) {
			return paginate.Page{}, NewInvalidInput([]FieldError{{Field: pe.Param, Message: pe.Reason}})
		}
		return paginate.Page{}, err
	}
	return p, nil
}

// ParseID parses a positive numeric resource id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, NewInvalidInput([]FieldError{{Field: "id", Message: "must be a positive integer"}})
	}
	return id, nil
}

func normalizeSpecies(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
