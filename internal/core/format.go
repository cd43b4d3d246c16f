package core

import "fmt"

const (
	// MiB is the divisor used for every "MB" figure the cleaner reports.
	MiB = 1024 * 1024
	// GiB is the divisor used for memory statistics.
	GiB = 1024 * 1024 * 1024
)

// FormatSize renders a byte count with binary units, e.g. "1.5 GB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		return "-" + FormatSize(-bytes)
	}
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 4; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTP"[exp])
}

// FormatGiB renders bytes as gigabytes with two decimals ("15.87 GB").
func FormatGiB(bytes uint64) string {
	return fmt.Sprintf("%.2f GB", float64(bytes)/GiB)
}

// FormatPercent renders a percentage with one decimal ("42.5%").
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// BytesToMB converts bytes to whole megabytes, truncating.
func BytesToMB(bytes int64) int64 {
	return bytes / MiB
}
