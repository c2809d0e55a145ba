package churn

import (
	"encoding/json"
	goerrors "errors"
	"fmt"

	"github.com/churnlabs/churnserve/internal/errors"
	"github.com/churnlabs/churnserve/pkg/feature"
	"github.com/gin-gonic/gin"
)

// bindNamedRequest decodes the named-form body. JSON type errors are mapped
// to ValidationError so a string where a number belongs names the field
// instead of surfacing a decoder message.
func bindNamedRequest(c *gin.Context) (*feature.NamedRecord, error) {
	var record feature.NamedRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		return nil, asValidationError(err)
	}
	return &record, nil
}

func bindBatchRequest(c *gin.Context) (*BatchPredictRequest, error) {
	var request BatchPredictRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		return nil, asValidationError(err)
	}
	return &request, nil
}

func asValidationError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if goerrors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return &errors.ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("must be of type %s", typeErr.Type),
		}
	}
	return &errors.ValidationError{Field: "body", Reason: "must be valid JSON"}
}
