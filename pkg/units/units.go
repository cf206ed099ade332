// Package units parses and formats the amounts accepted by admin command flags:
// memory sizes, job run times, credits and job counts.
//
// Parsers that accept the literal "unlimited" return a nil pointer for it, which
// matches how the models package represents an unlimited quota.
package units

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Unlimited is the literal accepted in place of an amount where a limit may be lifted.
const Unlimited = "unlimited"

var (
	// ErrInvalidValue indicates a flag value that cannot be parsed.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnlimitedNotAllowed indicates "unlimited" was given where only amounts are accepted.
	ErrUnlimitedNotAllowed = errors.New(`"unlimited" is not allowed here`)
)

var (
	memoryRegex  = regexp.MustCompile(`^(\d+)(?:([kK])([bB])?|([MGTPEZY])(B)?)?$`)
	runTimeRegex = regexp.MustCompile(`^(\d+(?:\.\d*)?|\.\d+)([hm])$`)
)

const memoryPrefixes = "KMGTPEZY"

// ParseMemory converts a memory amount into bytes.
//
// The amount is an integer optionally followed by a unit:
//   - K or k: kibibytes (1024)
//   - kB or kb: kilobytes (1000)
//   - M, G, T, P, E, Z, Y: binary multiples (1024^n)
//   - MB, GB, TB, PB, EB, ZB, YB: decimal multiples (1000^n)
//
// Examples: "512M", "1G", "16GB", "2048".
func ParseMemory(s string) (int64, error) {
	m := memoryRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: unable to parse memory amount %q", ErrInvalidValue, s)
	}

	value, ok := new(big.Int).SetString(m[1], 10)
	if !ok {
		return 0, fmt.Errorf("%w: unable to parse memory amount %q", ErrInvalidValue, s)
	}

	var base, power int64 = 1024, 0
	switch {
	case m[2] != "":
		power = 1
		if m[3] != "" {
			base = 1000
		}
	case m[4] != "":
		power = int64(strings.Index(memoryPrefixes, m[4]) + 1)
		if m[5] != "" {
			base = 1000
		}
	}

	multiplier := new(big.Int).Exp(big.NewInt(base), big.NewInt(power), nil)
	value.Mul(value, multiplier)
	if !value.IsInt64() {
		return 0, fmt.Errorf("%w: memory amount %q is too large", ErrInvalidValue, s)
	}
	return value.Int64(), nil
}

// ParseMemoryMB converts a memory amount into whole megabytes (2^20 bytes).
// Amounts below one megabyte are rejected.
func ParseMemoryMB(s string) (int64, error) {
	b, err := ParseMemory(s)
	if err != nil {
		return 0, err
	}
	mb := b / (1 << 20)
	if mb < 1 {
		return 0, fmt.Errorf("%w: memory amount %q is less than 1MB", ErrInvalidValue, s)
	}
	return mb, nil
}

// FormatMemoryMB renders a megabyte count for display, e.g. 2048 -> "2.0 GiB".
func FormatMemoryMB(mb int64) string {
	if mb < 0 {
		return strconv.FormatInt(mb, 10) + " MB"
	}
	return humanize.IBytes(uint64(mb) << 20)
}

// ParseRunTime converts a run time such as "10h" or "90.5m" into whole minutes.
// Fractional minutes are truncated. A nil result means unlimited.
func ParseRunTime(s string, allowUnlimited bool) (*int64, error) {
	if unlimited, err := checkUnlimited(s, allowUnlimited); unlimited || err != nil {
		return nil, err
	}
	m := runTimeRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil, fmt.Errorf("%w: run time %q must be a number followed by 'h' or 'm'", ErrInvalidValue, s)
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return nil, fmt.Errorf("%w: run time %q is not a finite number", ErrInvalidValue, s)
	}
	if m[2] == "h" {
		value *= 60
	}
	if value > math.MaxInt64/2 {
		return nil, fmt.Errorf("%w: run time %q is too large", ErrInvalidValue, s)
	}
	minutes := int64(value)
	return &minutes, nil
}

// FormatRunTime renders minutes as "HHh MMm"; nil renders as "unlimited".
func FormatRunTime(minutes *int64) string {
	if minutes == nil {
		return Unlimited
	}
	return fmt.Sprintf("%02dh %02dm", *minutes/60, *minutes%60)
}

// ParseCredits parses a non-negative decimal credit amount. A nil result means unlimited.
func ParseCredits(s string, allowUnlimited bool) (*decimal.Decimal, error) {
	if unlimited, err := checkUnlimited(s, allowUnlimited); unlimited || err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: credits %q is not a decimal number", ErrInvalidValue, s)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: credits %q must not be negative", ErrInvalidValue, s)
	}
	return &d, nil
}

// FormatCredits renders a credit amount; nil renders as "unlimited".
func FormatCredits(d *decimal.Decimal) string {
	if d == nil {
		return Unlimited
	}
	return d.String()
}

// ParseJobs parses a non-negative job count. A nil result means unlimited.
func ParseJobs(s string, allowUnlimited bool) (*int64, error) {
	if unlimited, err := checkUnlimited(s, allowUnlimited); unlimited || err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: jobs %q is not an integer", ErrInvalidValue, s)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: jobs %q must not be negative", ErrInvalidValue, s)
	}
	return &n, nil
}

// FormatJobs renders a job count; nil renders as "unlimited".
func FormatJobs(n *int64) string {
	if n == nil {
		return Unlimited
	}
	return humanize.Comma(*n)
}

func checkUnlimited(s string, allowed bool) (bool, error) {
	if !strings.EqualFold(strings.TrimSpace(s), Unlimited) {
		return false, nil
	}
	if !allowed {
		return true, ErrUnlimitedNotAllowed
	}
	return true, nil
}
