// Package paginate selects a page window out of an in-memory row collection
// and derives the first/last/next/prev navigation links for it.
package paginate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultSize is used when a request does not carry page[size].
const DefaultSize = 10

// Query parameter names, parsed as flat keys.
const (
	NumberParam = "page[number]"
	SizeParam   = "page[size]"
)

// ErrMalformedPage marks page parameters that cannot be turned into a Page.
var ErrMalformedPage = errors.New("malformed page parameter")

// ParamError describes which page parameter was rejected and why.
type ParamError struct {
	Param  string
	Value  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Param, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error { return ErrMalformedPage }

// Page is a 1-indexed page request.
type Page struct {
	Number int
	Size   int
}

// ParsePage converts raw query values into a Page. An empty size falls back
// to DefaultSize; number is required.
func ParsePage(number, size string) (Page, error) {
	number = strings.TrimSpace(number)
	size = strings.TrimSpace(size)

	n, err := strconv.Atoi(number)
	if err != nil {
		return Page{}, &ParamError{Param: NumberParam, Value: number, Reason: "must be an integer"}
	}

	s := DefaultSize
	if size != "" {
		s, err = strconv.Atoi(size)
		if err != nil {
			return Page{}, &ParamError{Param: SizeParam, Value: size, Reason: "must be an integer"}
		}
		if s <= 0 {
			return Page{}, &ParamError{Param: SizeParam, Value: size, Reason: "must be > 0"}
		}
	}
	return Page{Number: n, Size: s}, nil
}

// LinkFunc builds the URI of a given page at a given size.
type LinkFunc func(number, size int) string

// Links holds navigation URIs. Next and Prev are nil when no such page exists.
type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// Result is the page window plus its links.
type Result[T any] struct {
	Rows       []T
	Links      Links
	TotalPages int
}

// Paginate returns the rows of the requested page and the links around it.
// It never fails: pages outside [1, totalPages] yield an empty window with
// nil next/prev. A non-positive size is treated as DefaultSize.
func Paginate[T any](rows []T, page Page, link LinkFunc) Result[T] {
	size := page.Size
	if size <= 0 {
		size = DefaultSize
	}
	number := page.Number

	totalPages := len(rows) / size
	if len(rows)%size != 0 {
		totalPages++
	}
	outOfBounds := number < 1 || number > totalPages

	window := make([]T, 0)
	if !outOfBounds {
		start := (number - 1) * size
		end := len(rows)
		if size < end-start {
			end = start + size
		}
		window = append(window, rows[start:end]...)
	}

	links := Links{
		First: link(1, size),
		Last:  link(totalPages, size),
	}
	if !outOfBounds && number+1 <= totalPages {
		next := link(number+1, size)
		links.Next = &next
	}
	if !outOfBounds && number-1 >= 1 {
		prev := link(number-1, size)
		links.Prev = &prev
	}

	return Result[T]{Rows: window, Links: links, TotalPages: totalPages}
}
