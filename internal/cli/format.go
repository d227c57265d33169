// Package cli provides the command-line interface for the put screener.
package cli

import (
	"fmt"
	"time"
)

// FormatPrice formats a price with 2 decimal places.
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// FormatPnL formats a P&L amount with sign.
func FormatPnL(pnl float64) string {
	if pnl >= 0 {
		return fmt.Sprintf("+$%.2f", pnl)
	}
	return fmt.Sprintf("-$%.2f", -pnl)
}

// FormatROI formats an ROI value with 3 decimal places, matching the
// precision candidates are filtered at.
func FormatROI(roi float64) string {
	return fmt.Sprintf("%.3f", roi)
}

// FormatCOP formats a chance-of-profit as a percentage.
func FormatCOP(cop float64) string {
	return fmt.Sprintf("%.1f%%", cop*100)
}

// FormatDate formats a date as DD-Mon-YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02-Jan-2006")
}
