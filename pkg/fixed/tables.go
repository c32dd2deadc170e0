package fixed

import "math"

var (
	// FineSine covers five quarter turns so FineCosine can alias into it.
	FineSine   [5 * FineAngles / 4]Fixed
	FineCosine []Fixed
	// FineTangent covers (-90°, 90°) in FineAngles/2 steps.
	FineTangent [FineAngles / 2]Fixed
	// TanToAngle maps a SlopeDiv result back to an angle in [0°, 45°].
	TanToAngle [SlopeRange + 1]Angle
)

func init() {
	const step = 2 * math.Pi / FineAngles
	for i := range FineSine {
		FineSine[i] = FromFloat(math.Sin((float64(i) + 0.5) * step))
	}
	FineCosine = FineSine[FineAngles/4:]

	for i := range FineTangent {
		FineTangent[i] = FromFloat(math.Tan((float64(i-FineAngles/4) + 0.5) * step))
	}

	for i := range TanToAngle {
		a := math.Atan(float64(i)/SlopeRange) / (2 * math.Pi)
		TanToAngle[i] = Angle(uint32(math.Round(a * 4294967296.0)))
	}
}
