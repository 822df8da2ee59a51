package domain

import "errors"

var (
	ErrModelNotFound      = errors.New("registered model not found")
	ErrRunNotFound        = errors.New("run not found")
	ErrExperimentNotFound = errors.New("experiment not found")
)
