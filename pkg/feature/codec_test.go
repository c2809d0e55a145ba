package feature

import (
	goerrors "errors"
	"testing"

	"github.com/churnlabs/churnserve/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func validRecord() *NamedRecord {
	return &NamedRecord{
		Age:             f(45),
		TenureMonths:    f(24),
		MonthlyCharges:  f(79.99),
		TotalCharges:    f(1920.00),
		NumSupportCalls: f(3),
	}
}

func TestEncodeNamedOrdersFieldsBySchema(t *testing.T) {
	vec, err := EncodeNamed(validRecord())
	require.NoError(t, err)
	assert.Equal(t, Vector{45, 24, 79.99, 1920.00, 3}, vec)
}

func TestEncodeNamedValidation(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*NamedRecord)
		wantField string
	}{
		{"missing age", func(r *NamedRecord) { r.Age = nil }, "age"},
		{"missing tenure", func(r *NamedRecord) { r.TenureMonths = nil }, "tenure_months"},
		{"missing monthly charges", func(r *NamedRecord) { r.MonthlyCharges = nil }, "monthly_charges"},
		{"missing total charges", func(r *NamedRecord) { r.TotalCharges = nil }, "total_charges"},
		{"missing support calls", func(r *NamedRecord) { r.NumSupportCalls = nil }, "num_support_calls"},
		{"negative charge", func(r *NamedRecord) { r.MonthlyCharges = f(-1) }, "monthly_charges"},
		{"age above range", func(r *NamedRecord) { r.Age = f(130) }, "age"},
		{"fractional age", func(r *NamedRecord) { r.Age = f(44.5) }, "age"},
		{"fractional tenure", func(r *NamedRecord) { r.TenureMonths = f(1.5) }, "tenure_months"},
		{"support calls above range", func(r *NamedRecord) { r.NumSupportCalls = f(1001) }, "num_support_calls"},
		{"fractional support calls", func(r *NamedRecord) { r.NumSupportCalls = f(2.7) }, "num_support_calls"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := validRecord()
			tc.mutate(record)

			_, err := EncodeNamed(record)
			var verr *errors.ValidationError
			require.True(t, goerrors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}
}

func TestEncodeNamedBoundaries(t *testing.T) {
	record := validRecord()
	record.Age = f(0)
	record.TenureMonths = f(0)
	record.NumSupportCalls = f(1000)

	_, err := EncodeNamed(record)
	assert.NoError(t, err)

	record.Age = f(120)
	_, err = EncodeNamed(record)
	assert.NoError(t, err)
}

func TestEncodeBatch(t *testing.T) {
	vectors, err := EncodeBatch([][]float64{
		{45, 24, 79.99, 1920.00, 3},
		{30, 60, 20, 1200, 0},
	})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, Vector{30, 60, 20, 1200, 0}, vectors[1])
}

func TestEncodeBatchRejectsWrongArity(t *testing.T) {
	_, err := EncodeBatch([][]float64{
		{45, 24, 79.99, 1920.00, 3},
		{1, 2, 3},
	})
	var verr *errors.ValidationError
	require.True(t, goerrors.As(err, &verr))
	assert.Equal(t, "instances[1]", verr.Field)
	assert.Contains(t, verr.Reason, "expected 5 values, got 3")
}

func TestEncodeBatchRejectsEmpty(t *testing.T) {
	_, err := EncodeBatch(nil)
	var verr *errors.ValidationError
	require.True(t, goerrors.As(err, &verr))
	assert.Equal(t, "instances", verr.Field)
}

func TestDecodeResult(t *testing.T) {
	result := DecodeResult(1, 0.73)
	assert.Equal(t, 1, result.Churn)
	assert.Equal(t, 0.73, result.ChurnProbability)
}
