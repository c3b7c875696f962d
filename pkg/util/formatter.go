package util

import (
	"fmt"
	"math"

	"carnot-adex/internal/consts"
)

// FormatValueFactor prints a value with an engineering prefix.
func FormatValueFactor(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue >= 1e6:
		return fmt.Sprintf("%.3f M%s", value/1e6, unit)
	case absValue >= 1e3:
		return fmt.Sprintf("%.3f k%s", value/1e3, unit)
	case absValue >= 1:
		return fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case value == 0:
		return fmt.Sprintf("0.000 %s", unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}

// FormatTemperature prints a temperature in degC.
func FormatTemperature(t float64) string {
	return fmt.Sprintf("%8.2f degC", t-consts.KELVIN)
}

// FormatPressure prints a pressure in bar.
func FormatPressure(p float64) string {
	return fmt.Sprintf("%8.4f bar", p/consts.BAR)
}

// FormatPower prints a power or heat flow in kW.
func FormatPower(w float64) string {
	return fmt.Sprintf("%9.3f kW", w/1e3)
}

// FormatRatio prints a dimensionless figure, "-" when undefined.
func FormatRatio(v float64) string {
	if math.IsNaN(v) {
		return "     -"
	}
	return fmt.Sprintf("%6.4f", v)
}
