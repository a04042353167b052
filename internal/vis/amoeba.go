package vis

import "math"

// AmoebaOptions controls contour sampling and deformation gains.
type AmoebaOptions struct {
	Samples            int     // angular sample count (excluding the closing point)
	MaxDeviation       float64 // hard bound on radial deviation, fraction of nominal radius
	BreathingAmplitude float64 // breathing contribution, fraction of nominal radius
	BoostGain          float64 // click-boost contribution, fraction of nominal radius
}

// DefaultAmoebaOptions returns sampling defaults that keep the contour
// smooth at typical blob sizes.
func DefaultAmoebaOptions() AmoebaOptions {
	return AmoebaOptions{
		Samples:            96,
		MaxDeviation:       0.25,
		BreathingAmplitude: 0.04,
		BoostGain:          0.08,
	}
}

// GenerateAmoebaPath derives the blob's silhouette: a closed, roughly
// circular contour centered on the origin whose radius at each angular
// sample is perturbed by the interpolated noise lobe, the breathing
// phase, and the click boost. Pure function of its inputs.
//
// Guarantees: the first and last points coincide (explicit closure);
// the total deviation is clamped to ±MaxDeviation of the nominal
// radius, so with MaxDeviation < 1 no lobe can invert the shape through
// the center; radii are evaluated on a monotone angular sweep, so the
// star-shaped contour cannot self-intersect.
func GenerateAmoebaPath(size float64, state BlobAnimationState, opts AmoebaOptions) []Vec2 {
	n := opts.Samples
	if n < 3 {
		n = 3
	}
	nominal := size / 2
	breathing := math.Sin(state.BreathingPhase) * opts.BreathingAmplitude
	boost := state.ClickBoost * opts.BoostGain

	points := make([]Vec2, 0, n+1)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)

		deviation := lobeAt(state.NoiseSamples, float64(i)/float64(n)) + breathing + boost
		if deviation > opts.MaxDeviation {
			deviation = opts.MaxDeviation
		} else if deviation < -opts.MaxDeviation {
			deviation = -opts.MaxDeviation
		}

		radius := nominal * (1 + deviation)
		points = append(points, Vec2{
			X: math.Cos(angle) * radius,
			Y: math.Sin(angle) * radius,
		})
	}

	// Explicit closure.
	points = append(points, points[0])
	return points
}

// lobeAt interpolates the per-lobe noise samples at normalized position
// t in [0, 1), using cosine interpolation so adjacent lobes blend
// without corners. An empty sample vector yields zero deformation.
func lobeAt(samples []float64, t float64) float64 {
	lobes := len(samples)
	if lobes == 0 {
		return 0
	}
	pos := t * float64(lobes)
	i := int(pos)
	frac := pos - float64(i)

	a := samples[i%lobes]
	b := samples[(i+1)%lobes]

	// Cosine ease between adjacent lobes.
	mu := (1 - math.Cos(frac*math.Pi)) / 2
	return a*(1-mu) + b*mu
}
