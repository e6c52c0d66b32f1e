package matrix

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// NeutralColor marks a row with neither successes nor failures.
const NeutralColor = "#000000"

// failureWeight makes one failure count as much as five successes.
const failureWeight = 5

var (
	goodAnchor = [3]float64{0x32, 0xcd, 0x32} // #32cd32
	badAnchor  = [3]float64{0xff, 0x63, 0x47} // #ff6347
)

// Color maps success and failure tallies onto a "#rrggbb" color between the
// good and bad anchors. Failures weigh five times as much as successes.
func Color(success, failure int) string {
	if success+failure == 0 {
		return NeutralColor
	}
	ratio := float64(success) / float64(success+failure*failureWeight)
	if math.IsNaN(ratio) {
		ratio = 0
	}
	ratio = math.Max(0, math.Min(1, ratio))

	c := colorful.Color{
		R: channel(0, ratio),
		G: channel(1, ratio),
		B: channel(2, ratio),
	}
	return c.Clamped().Hex()
}

func channel(i int, ratio float64) float64 {
	v := math.Round(goodAnchor[i]*ratio + badAnchor[i]*(1-ratio))
	return v / 255
}
