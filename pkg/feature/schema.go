// Package feature owns the canonical churn feature schema and the codec
// between external request shapes and the fixed-order vector the model
// consumes. The field order below must match the order the artifact was
// fitted with; nothing in this package reorders implicitly.
package feature

// Canonical field order. Position is meaning: reordering silently produces
// wrong predictions, so loads verify the artifact declares this exact order.
var FieldNames = []string{
	"age",
	"tenure_months",
	"monthly_charges",
	"total_charges",
	"num_support_calls",
}

// VectorSize is the fixed arity of the model input.
const VectorSize = 5

// Vector is one fixed-order numeric model input.
type Vector []float64

// NamedRecord is the named-form request body. Pointers distinguish a missing
// field from a zero value.
type NamedRecord struct {
	Age             *float64 `json:"age"`
	TenureMonths    *float64 `json:"tenure_months"`
	MonthlyCharges  *float64 `json:"monthly_charges"`
	TotalCharges    *float64 `json:"total_charges"`
	NumSupportCalls *float64 `json:"num_support_calls"`
}

// PredictionResult is the named-form response body.
type PredictionResult struct {
	Churn            int     `json:"churn"`
	ChurnProbability float64 `json:"churn_probability"`
}
