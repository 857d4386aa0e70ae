package controller

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoFileSelected  = errors.New("no file selected for upload")
	ErrNoSelection     = errors.New("no CSV file selected")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// SchemaMismatchError is returned in strict schema mode when a row of a
// dataset does not have the same columns as the first row.
type SchemaMismatchError struct {
	Index    int
	Expected []string
	Got      []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("row %d has columns [%s], expected [%s]",
		e.Index, strings.Join(e.Got, ","), strings.Join(e.Expected, ","))
}
