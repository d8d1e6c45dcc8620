package deals

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("deal not found")
)
