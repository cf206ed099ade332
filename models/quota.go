package models

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Quota limits what a user may consume on a cluster.
// A nil field means the corresponding resource is unlimited.
type Quota struct {
	// Credits is the remaining credit balance
	Credits *decimal.Decimal `json:"credits,omitempty"`

	// TotalGPURunTimeMinutes is the allowed run time of GPU jobs
	TotalGPURunTimeMinutes *int64 `json:"total_gpu_run_time_minutes,omitempty"`

	// TotalNonGPURunTimeMinutes is the allowed run time of non-GPU jobs
	TotalNonGPURunTimeMinutes *int64 `json:"total_non_gpu_run_time_minutes,omitempty"`

	// TotalRunningJobs caps concurrently running jobs
	TotalRunningJobs *int64 `json:"total_running_jobs,omitempty"`
}

// IsUnlimited reports whether no part of the quota is limited.
func (q Quota) IsUnlimited() bool {
	return q.Credits == nil && q.TotalGPURunTimeMinutes == nil &&
		q.TotalNonGPURunTimeMinutes == nil && q.TotalRunningJobs == nil
}

// Validate rejects negative limits.
func (q Quota) Validate() error {
	if q.Credits != nil && q.Credits.IsNegative() {
		return fmt.Errorf("%w: credits must not be negative", ErrInvalidQuota)
	}
	limits := []struct {
		name  string
		value *int64
	}{
		{"gpu run time", q.TotalGPURunTimeMinutes},
		{"non-gpu run time", q.TotalNonGPURunTimeMinutes},
		{"running jobs", q.TotalRunningJobs},
	}
	for _, l := range limits {
		if l.value != nil && *l.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidQuota, l.name)
		}
	}
	return nil
}

// Add returns q increased by delta.
// Limits that are unlimited in q stay unlimited; parts missing from delta are left as is.
// A sum that does not fit in an int64 is rejected with ErrInvalidQuota.
func (q Quota) Add(delta Quota) (Quota, error) {
	out := q
	if q.Credits != nil && delta.Credits != nil {
		sum := q.Credits.Add(*delta.Credits)
		out.Credits = &sum
	}
	var err error
	if out.TotalGPURunTimeMinutes, err = addLimit("gpu run time", q.TotalGPURunTimeMinutes, delta.TotalGPURunTimeMinutes); err != nil {
		return q, err
	}
	if out.TotalNonGPURunTimeMinutes, err = addLimit("non-gpu run time", q.TotalNonGPURunTimeMinutes, delta.TotalNonGPURunTimeMinutes); err != nil {
		return q, err
	}
	if out.TotalRunningJobs, err = addLimit("running jobs", q.TotalRunningJobs, delta.TotalRunningJobs); err != nil {
		return q, err
	}
	return out, nil
}

func addLimit(name string, cur, delta *int64) (*int64, error) {
	if cur == nil || delta == nil {
		return cur, nil
	}
	if *delta > 0 && *cur > math.MaxInt64-*delta {
		return nil, fmt.Errorf("%w: %s would exceed %d", ErrInvalidQuota, name, int64(math.MaxInt64))
	}
	sum := *cur + *delta
	return &sum, nil
}

// QuotaAddRequest is the body of an add-quota call.
// Every part is an increment; at least one part must be present.
type QuotaAddRequest struct {
	AdditionalCredits              *decimal.Decimal `json:"additional_credits,omitempty"`
	AdditionalGPURunTimeMinutes    *int64           `json:"additional_gpu_run_time_minutes,omitempty"`
	AdditionalNonGPURunTimeMinutes *int64           `json:"additional_non_gpu_run_time_minutes,omitempty"`
	AdditionalRunningJobs          *int64           `json:"additional_running_jobs,omitempty"`
}

// Delta converts the request into a Quota increment.
func (r QuotaAddRequest) Delta() Quota {
	return Quota{
		Credits:                   r.AdditionalCredits,
		TotalGPURunTimeMinutes:    r.AdditionalGPURunTimeMinutes,
		TotalNonGPURunTimeMinutes: r.AdditionalNonGPURunTimeMinutes,
		TotalRunningJobs:          r.AdditionalRunningJobs,
	}
}

// Validate requires at least one non-negative increment.
func (r QuotaAddRequest) Validate() error {
	d := r.Delta()
	if d.IsUnlimited() {
		return fmt.Errorf("%w: at least one quota increment is required", ErrInvalidQuota)
	}
	return d.Validate()
}
