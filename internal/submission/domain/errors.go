package domain

import (
	"github.com/allisson/formseal/internal/errors"
)

var (
	// ErrFormRequired indicates a submission without form data.
	ErrFormRequired = errors.Wrap(errors.ErrInvalidInput, "form data is required")

	// ErrFormNotObject indicates form data whose root is not a JSON object.
	ErrFormNotObject = errors.Wrap(errors.ErrInvalidInput, "form data must be an object")

	// ErrDeliveryRejected indicates the gateway refused the payload.
	ErrDeliveryRejected = errors.Wrap(errors.ErrUnavailable, "submission rejected by gateway")
)
