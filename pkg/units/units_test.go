package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMemory(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "2048", want: 2048},
		{input: "1K", want: 1024},
		{input: "1k", want: 1024},
		{input: "1kB", want: 1000},
		{input: "1kb", want: 1000},
		{input: "1M", want: 1 << 20},
		{input: "1MB", want: 1000 * 1000},
		{input: "16G", want: 16 << 30},
		{input: "2GB", want: 2_000_000_000},
		{input: "1T", want: 1 << 40},
		{input: "1PB", want: 1_000_000_000_000_000},
		{input: "1E", want: 1 << 60},
		{input: "", wantErr: true},
		{input: "G", wantErr: true},
		{input: "1.5G", wantErr: true},
		{input: "-1G", wantErr: true},
		{input: "1Gb", wantErr: true},
		{input: "1X", wantErr: true},
		{input: "8E", wantErr: true},
		{input: "1Z", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMemory(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMemoryMB(t *testing.T) {
	mb, err := ParseMemoryMB("1G")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), mb)

	mb, err = ParseMemoryMB("16GB")
	require.NoError(t, err)
	assert.Equal(t, int64(15258), mb)

	_, err = ParseMemoryMB("512K")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestFormatMemoryMB(t *testing.T) {
	assert.Equal(t, "1.0 GiB", FormatMemoryMB(1024))
	assert.Equal(t, "512 MiB", FormatMemoryMB(512))
}

func TestParseRunTime(t *testing.T) {
	tests := []struct {
		input          string
		allowUnlimited bool
		want           *int64
		wantErr        error
	}{
		{input: "10h", want: ptr(600)},
		{input: "1.5h", want: ptr(90)},
		{input: "90m", want: ptr(90)},
		{input: "0.9m", want: ptr(0)},
		{input: ".5h", want: ptr(30)},
		{input: "0m", want: ptr(0)},
		{input: "unlimited", allowUnlimited: true, want: nil},
		{input: "unlimited", wantErr: ErrUnlimitedNotAllowed},
		{input: "10", wantErr: ErrInvalidValue},
		{input: "10d", wantErr: ErrInvalidValue},
		{input: "-1h", wantErr: ErrInvalidValue},
		{input: "h", wantErr: ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRunTime(tt.input, tt.allowUnlimited)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatRunTime(t *testing.T) {
	assert.Equal(t, "unlimited", FormatRunTime(nil))
	assert.Equal(t, "00h 00m", FormatRunTime(ptr(0)))
	assert.Equal(t, "01h 30m", FormatRunTime(ptr(90)))
	assert.Equal(t, "100h 05m", FormatRunTime(ptr(6005)))
}

func TestParseCredits(t *testing.T) {
	d, err := ParseCredits("100.50", false)
	require.NoError(t, err)
	assert.Equal(t, "100.5", d.String())
	assert.Equal(t, "100.5", FormatCredits(d))

	d, err = ParseCredits("unlimited", true)
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.Equal(t, "unlimited", FormatCredits(d))

	_, err = ParseCredits("UNLIMITED", false)
	assert.ErrorIs(t, err, ErrUnlimitedNotAllowed)

	_, err = ParseCredits("-5", false)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = ParseCredits("lots", true)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseJobs(t *testing.T) {
	n, err := ParseJobs("10", false)
	require.NoError(t, err)
	assert.Equal(t, int64(10), *n)

	n, err = ParseJobs("unlimited", true)
	require.NoError(t, err)
	assert.Nil(t, n)

	for _, bad := range []string{"-1", "1.5", "ten", ""} {
		_, err = ParseJobs(bad, true)
		assert.ErrorIs(t, err, ErrInvalidValue, bad)
	}

	assert.Equal(t, "1,000", FormatJobs(ptr(1000)))
	assert.Equal(t, "unlimited", FormatJobs(nil))
}

func ptr(v int64) *int64 { return &v }
