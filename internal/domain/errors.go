package domain

import "errors"

// ErrGateway envuelve cualquier fallo de una API externa (status no 2xx o error de red).
var ErrGateway = errors.New("gateway error")
