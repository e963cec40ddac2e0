package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("facilitator rejected request")
	ErrNotFound            = errors.New("facilitator endpoint not found")
	ErrInternalServerError = errors.New("facilitator internal error")
	ErrBadGateway          = errors.New("facilitator upstream unavailable")
)
