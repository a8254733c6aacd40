package domain

import "errors"

var (
	// ErrInvalidInput marks payloads that cannot be evaluated at all.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidArgument marks caller misuse of the decision rule.
	ErrInvalidArgument = errors.New("invalid argument")
	ErrPredictionNotFound = errors.New("prediction not found")
)
