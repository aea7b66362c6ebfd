package dto

import (
	"encoding/json"
	"errors"
	"io"
	"vehicle-routing-service/internal/domain"
)

var (
	ErrInvalidJSON  = errors.New("invalid json body")
	ErrTrailingData = errors.New("body must contain only one JSON object")
)

// DecodeStrict decodes exactly one JSON object into v and rejects unknown fields.
func DecodeStrict(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrInvalidJSON, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return ErrTrailingData
	}
	return nil
}

// DecodeProblem reads one SolveRequest from body and converts it.
func DecodeProblem(body io.Reader) (*domain.Problem, error) {
	var req SolveRequest
	if err := DecodeStrict(body, &req); err != nil {
		return nil, err
	}
	return req.ToProblem()
}
