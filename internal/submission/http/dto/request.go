// Package dto provides data transfer objects for the submission HTTP API.
package dto

import (
	"encoding/json"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/formseal/internal/validation"
)

// MaxFormBytes bounds the size of a form document accepted by the API.
const MaxFormBytes = 1 << 20

// SubmitApplicationRequest carries the plain form data tree to submit.
type SubmitApplicationRequest struct {
	Form json.RawMessage `json:"form"`
}

// Validate checks if the submit request is valid.
func (r *SubmitApplicationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Form,
			validation.Required,
			customValidation.MaxBytes(MaxFormBytes),
			customValidation.JSONObject,
		),
	)
}

// VerifyApplicationRequest carries a payload previously produced by a submission, envelopes
// included.
type VerifyApplicationRequest struct {
	Payload json.RawMessage `json:"payload"`
}

// Validate checks if the verify request is valid.
func (r *VerifyApplicationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Payload,
			validation.Required,
			customValidation.MaxBytes(MaxFormBytes),
			customValidation.JSONObject,
		),
	)
}
