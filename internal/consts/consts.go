package consts

const (
	KELVIN = 273.15 // 0 degC in K
	BAR    = 1e5    // 1 bar in Pa
)
