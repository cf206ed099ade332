package models

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64 { return &v }

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestQuota_Add(t *testing.T) {
	cur := Quota{
		Credits:                decp("10.5"),
		TotalGPURunTimeMinutes: int64p(60),
		TotalRunningJobs:       int64p(2),
	}
	delta := Quota{
		Credits:                   decp("0.25"),
		TotalGPURunTimeMinutes:    int64p(30),
		TotalNonGPURunTimeMinutes: int64p(120),
	}

	got, err := cur.Add(delta)
	require.NoError(t, err)

	require.NotNil(t, got.Credits)
	assert.Equal(t, "10.75", got.Credits.String())
	assert.Equal(t, int64(90), *got.TotalGPURunTimeMinutes)
	assert.Nil(t, got.TotalNonGPURunTimeMinutes, "unlimited stays unlimited")
	assert.Equal(t, int64(2), *got.TotalRunningJobs)

	// The receiver must not be mutated.
	assert.Equal(t, int64(60), *cur.TotalGPURunTimeMinutes)
}

func TestQuota_AddOverflow(t *testing.T) {
	cur := Quota{TotalRunningJobs: int64p(10), TotalGPURunTimeMinutes: int64p(5)}

	got, err := cur.Add(Quota{TotalRunningJobs: int64p(math.MaxInt64)})
	assert.ErrorIs(t, err, ErrInvalidQuota)
	assert.Contains(t, err.Error(), "running jobs")
	assert.Equal(t, int64(10), *got.TotalRunningJobs)

	got, err = cur.Add(Quota{TotalGPURunTimeMinutes: int64p(math.MaxInt64 - 5)})
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), *got.TotalGPURunTimeMinutes)
}

func TestQuota_Validate(t *testing.T) {
	assert.NoError(t, Quota{}.Validate())
	assert.NoError(t, Quota{Credits: decp("0"), TotalRunningJobs: int64p(0)}.Validate())

	err := Quota{Credits: decp("-1")}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidQuota))

	err = Quota{TotalNonGPURunTimeMinutes: int64p(-5)}.Validate()
	assert.ErrorIs(t, err, ErrInvalidQuota)
	assert.Contains(t, err.Error(), "non-gpu run time")
}

func TestQuotaAddRequest_Validate(t *testing.T) {
	assert.ErrorIs(t, QuotaAddRequest{}.Validate(), ErrInvalidQuota)
	assert.NoError(t, QuotaAddRequest{AdditionalRunningJobs: int64p(1)}.Validate())
	assert.ErrorIs(t, QuotaAddRequest{AdditionalCredits: decp("-2")}.Validate(), ErrInvalidQuota)
}

func TestQuota_IsUnlimited(t *testing.T) {
	assert.True(t, Quota{}.IsUnlimited())
	assert.False(t, Quota{TotalRunningJobs: int64p(3)}.IsUnlimited())
}
