package abstraction

import (
	"math"
	"math/rand"
)

func newSeededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// KMeansModel is a fitted clustering: cluster centers plus the per-dimension
// mean/std used to z-score features before distance comparisons, so that
// fitting and lookup normalize identically.
type KMeansModel struct {
	Centers [][]float64
	Mean    []float64
	Std     []float64
}

// Normalize z-scores a raw feature vector using the model's fitted mean/std.
func (m KMeansModel) Normalize(raw []float64) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		std := m.Std[i]
		if std == 0 {
			std = 1
		}
		out[i] = (v - m.Mean[i]) / std
	}
	return out
}

// Assign returns the index of the nearest center to a normalized vector.
func (m KMeansModel) Assign(normalized []float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range m.Centers {
		d := squaredDistance(c, normalized)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// FitKMeans clusters samples into k centers using Lloyd's algorithm with a
// deterministic seeded RNG for the initial centers (k-means++ seeding) and a
// fixed iteration cap, so two fits from the same (seed, samples, k) always
// converge to bit-identical centers.
func FitKMeans(samples [][]float64, k int, seed int64, maxIterations int) KMeansModel {
	dim := len(samples[0])
	mean, std := meanStd(samples)
	normalized := make([][]float64, len(samples))
	for i, s := range samples {
		normalized[i] = normalizeWith(s, mean, std)
	}

	centers := kmeansPlusPlusInit(normalized, k, seed)
	assignment := make([]int, len(normalized))

	if maxIterations <= 0 {
		maxIterations = 100
	}
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, v := range normalized {
			best := 0
			bestDist := math.Inf(1)
			for c, center := range centers {
				d := squaredDistance(center, v)
				if d < bestDist {
					bestDist = d
					best = c
				}
			}
			if assignment[i] != best {
				changed = true
				assignment[i] = best
			}
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, v := range normalized {
			c := assignment[i]
			counts[c]++
			for d := 0; d < dim; d++ {
				sums[c][d] += v[d]
			}
		}
		for c := range centers {
			if counts[c] == 0 {
				continue // keep stale center; an empty cluster contributes no gradient
			}
			for d := 0; d < dim; d++ {
				centers[c][d] = sums[c][d] / float64(counts[c])
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	return KMeansModel{Centers: centers, Mean: mean, Std: std}
}

func normalizeWith(raw, mean, std []float64) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		s := std[i]
		if s == 0 {
			s = 1
		}
		out[i] = (v - mean[i]) / s
	}
	return out
}

func meanStd(samples [][]float64) (mean, std []float64) {
	n := len(samples)
	dim := len(samples[0])
	mean = make([]float64, dim)
	std = make([]float64, dim)
	for _, s := range samples {
		for d := 0; d < dim; d++ {
			mean[d] += s[d]
		}
	}
	for d := range mean {
		mean[d] /= float64(n)
	}
	for _, s := range samples {
		for d := 0; d < dim; d++ {
			diff := s[d] - mean[d]
			std[d] += diff * diff
		}
	}
	for d := range std {
		std[d] = math.Sqrt(std[d] / float64(n))
	}
	return mean, std
}

// kmeansPlusPlusInit seeds k centers using the k-means++ distribution, with
// a deterministic math/rand stream so the same seed always yields the same
// initial centers.
func kmeansPlusPlusInit(samples [][]float64, k int, seed int64) [][]float64 {
	rng := newSeededRNG(seed)
	centers := make([][]float64, 0, k)

	first := samples[rng.Intn(len(samples))]
	centers = append(centers, append([]float64{}, first...))

	dist := make([]float64, len(samples))
	for len(centers) < k {
		var total float64
		for i, s := range samples {
			d := squaredDistance(s, centers[len(centers)-1])
			if len(centers) == 1 || d < dist[i] {
				dist[i] = d
			}
			total += dist[i]
		}
		if total == 0 {
			// Degenerate: all remaining samples coincide with an existing
			// center. Fill remaining slots with copies to keep k fixed.
			centers = append(centers, append([]float64{}, samples[rng.Intn(len(samples))]...))
			continue
		}
		target := rng.Float64() * total
		var cum float64
		chosen := len(samples) - 1
		for i, d := range dist {
			cum += d
			if cum >= target {
				chosen = i
				break
			}
		}
		centers = append(centers, append([]float64{}, samples[chosen]...))
	}
	return centers
}
