package consts

const (
	SPEED_OF_LIGHT = 299792458.0 // Speed of light in vacuum (m/s)

	DEFAULT_LMAX         = 2
	DEFAULT_MEDIUM_INDEX = 1.0
	DEFAULT_SOLVER       = "sparse-lu"
	DEFAULT_POINTS       = 10 // points per decade/octave or total (LIN)
	DEFAULT_SCALING_STEP = 1
)
