package compose

import "math"

// hash32 mixes lattice coordinates and a seed into a uniform [0,1) value.
// The finalizer is the standard murmur3-style avalanche.
func hash32(x, y int32, seed uint32) float64 {
	h := uint32(x)*0x85ebca6b ^ uint32(y)*0xc2b2ae35 ^ seed
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return float64(h) / float64(math.MaxUint32+1)
}

// fade is the smoothstep easing applied to lattice interpolation weights.
func fade(t float64) float64 {
	return t * t * (3 - 2*t)
}

// valueNoise is coherent lattice noise in [0,1): hashed corners, smoothly
// interpolated.
func valueNoise(x, y float64, seed uint32) float64 {
	fx, fy := math.Floor(x), math.Floor(y)
	ix, iy := int32(fx), int32(fy)
	tx, ty := fade(x-fx), fade(y-fy)

	v00 := hash32(ix, iy, seed)
	v10 := hash32(ix+1, iy, seed)
	v01 := hash32(ix, iy+1, seed)
	v11 := hash32(ix+1, iy+1, seed)

	top := v00 + (v10-v00)*tx
	bot := v01 + (v11-v01)*tx
	return top + (bot-top)*ty
}

// fbm composites octaves of value noise with halving amplitude and doubling
// frequency, normalized back to [0,1).
func fbm(x, y float64, seed uint32, octaves int) float64 {
	sum, amp, norm := 0.0, 1.0, 0.0
	for o := 0; o < octaves; o++ {
		sum += valueNoise(x, y, seed+uint32(o)*0x9e3779b9) * amp
		norm += amp
		x *= 2
		y *= 2
		amp *= 0.5
	}
	return sum / norm
}

// grain is independent per-pixel hashed noise, used for the final film
// grain term.
func grain(x, y int, seed uint32) float64 {
	return hash32(int32(x), int32(y), seed)
}
