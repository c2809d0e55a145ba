package feature

import (
	"fmt"
	"math"

	"github.com/churnlabs/churnserve/internal/errors"
)

const (
	maxAge          = 120
	maxSupportCalls = 1000
)

// EncodeNamed validates a named-form record and assembles the canonical
// vector. Each field is mapped to its position explicitly; a violation
// reports the offending field and rule.
func EncodeNamed(record *NamedRecord) (Vector, error) {
	fields := []struct {
		name  string
		value *float64
	}{
		{"age", record.Age},
		{"tenure_months", record.TenureMonths},
		{"monthly_charges", record.MonthlyCharges},
		{"total_charges", record.TotalCharges},
		{"num_support_calls", record.NumSupportCalls},
	}

	vec := make(Vector, VectorSize)
	for i, f := range fields {
		if f.value == nil {
			return nil, &errors.ValidationError{Field: f.name, Reason: "is required"}
		}
		v := *f.value
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &errors.ValidationError{Field: f.name, Reason: "must be a finite number"}
		}
		if v < 0 {
			return nil, &errors.ValidationError{Field: f.name, Reason: "must be non-negative"}
		}
		vec[i] = v
	}

	if err := requireWholeNumber("age", *record.Age); err != nil {
		return nil, err
	}
	if *record.Age > maxAge {
		return nil, &errors.ValidationError{Field: "age", Reason: fmt.Sprintf("must be at most %d", maxAge)}
	}
	if err := requireWholeNumber("tenure_months", *record.TenureMonths); err != nil {
		return nil, err
	}
	if err := requireWholeNumber("num_support_calls", *record.NumSupportCalls); err != nil {
		return nil, err
	}
	if *record.NumSupportCalls > maxSupportCalls {
		return nil, &errors.ValidationError{Field: "num_support_calls", Reason: fmt.Sprintf("must be at most %d", maxSupportCalls)}
	}

	return vec, nil
}

// EncodeBatch validates array-form instances. Only arity and numeric-ness are
// checked: batch callers are automated clients on the array protocol and are
// expected to supply pre-validated vectors. The whole batch is validated
// before any prediction runs.
func EncodeBatch(instances [][]float64) ([]Vector, error) {
	if len(instances) == 0 {
		return nil, &errors.ValidationError{Field: "instances", Reason: "must contain at least one feature vector"}
	}
	vectors := make([]Vector, 0, len(instances))
	for i, instance := range instances {
		if len(instance) != VectorSize {
			return nil, &errors.ValidationError{
				Field:  fmt.Sprintf("instances[%d]", i),
				Reason: fmt.Sprintf("expected %d values, got %d", VectorSize, len(instance)),
			}
		}
		for j, v := range instance {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &errors.ValidationError{
					Field:  fmt.Sprintf("instances[%d][%d]", i, j),
					Reason: "must be a finite number",
				}
			}
		}
		vectors = append(vectors, Vector(instance))
	}
	return vectors, nil
}

// DecodeResult shapes a predictor outcome into the named-form response. Both
// values come straight from the predictor; neither is derived from the other.
func DecodeResult(label int, probability float64) PredictionResult {
	return PredictionResult{Churn: label, ChurnProbability: probability}
}

func requireWholeNumber(field string, v float64) error {
	if v != math.Trunc(v) {
		return &errors.ValidationError{Field: field, Reason: "must be a whole number"}
	}
	return nil
}
