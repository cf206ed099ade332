package cmd

import (
	"strconv"
	"time"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatGPU(count int, model string) string {
	switch {
	case count == 0:
		return "-"
	case model == "":
		return strconv.Itoa(count)
	}
	return strconv.Itoa(count) + " x " + model
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatCPU(cpu float64) string {
	return strconv.FormatFloat(cpu, 'f', -1, 64)
}
