package model

import "errors"

var (
	// ErrNotFound is returned when a project, task or suggestion is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a project or task already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource or a generated value is not valid.
	ErrNotValid = errors.New("not valid")
)
