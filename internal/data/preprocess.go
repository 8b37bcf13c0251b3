package data

import "math"

// binarizeThreshold separates background from foreground in raw 8-bit pixel data.
const binarizeThreshold = 30.0

// Binarize maps every element of every sample to 0 or 1 in place.
func Binarize(samples [][]float64) {
	for _, s := range samples {
		for i, v := range s {
			if v > binarizeThreshold {
				s[i] = 1
			} else {
				s[i] = 0
			}
		}
	}
}

// Normalize shifts and scales every sample in place to zero mean and unit standard deviation.
// Constant samples are only shifted.
func Normalize(samples [][]float64) {
	for _, s := range samples {
		if len(s) == 0 {
			continue
		}
		var sum float64
		for _, v := range s {
			sum += v
		}
		mean := sum / float64(len(s))

		var dSquared float64
		for _, v := range s {
			dSquared += (v - mean) * (v - mean)
		}
		stdev := math.Sqrt(dSquared / float64(len(s)))

		for i, v := range s {
			s[i] = v - mean
			if stdev > 0 {
				s[i] /= stdev
			}
		}
	}
}
