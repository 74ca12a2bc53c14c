package store

import "errors"

var (
	ErrNotFound     = errors.New("record not found")
	ErrPeriodsExist = errors.New("periods already exist for year")
	ErrInvalidInput = errors.New("invalid input")
)
