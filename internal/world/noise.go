package world

import (
	"math"
)

// Deterministic value noise built on SplitMix64 lattice hashing. All outputs are in [0,1].

func fade(t float64) float64 {
	// 6t^5 - 15t^4 + 10t^3
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func mix64(v uint64) uint64 {
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

func hash2(x, z, seed int64) uint64 {
	return mix64(uint64(x) + (uint64(z) << 1) + uint64(seed)*0x9E3779B97F4A7C15)
}

func hash3(x, y, z, seed int64) uint64 {
	return mix64(uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(z)*0x6C62272E07BB0142 + uint64(seed))
}

func unit(h uint64) float64 {
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x, z float64, seed int64) float64 {
	x0, z0 := math.Floor(x), math.Floor(z)
	ix, iz := int64(x0), int64(z0)
	fx, fz := fade(x-x0), fade(z-z0)

	v00 := unit(hash2(ix, iz, seed))
	v10 := unit(hash2(ix+1, iz, seed))
	v01 := unit(hash2(ix, iz+1, seed))
	v11 := unit(hash2(ix+1, iz+1, seed))

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fz)
}

func valueNoise3D(x, y, z float64, seed int64) float64 {
	x0, y0, z0 := math.Floor(x), math.Floor(y), math.Floor(z)
	ix, iy, iz := int64(x0), int64(y0), int64(z0)
	fx, fy, fz := fade(x-x0), fade(y-y0), fade(z-z0)

	corner := func(dx, dy, dz int64) float64 {
		return unit(hash3(ix+dx, iy+dy, iz+dz, seed))
	}
	i00 := lerp(corner(0, 0, 0), corner(1, 0, 0), fx)
	i10 := lerp(corner(0, 1, 0), corner(1, 1, 0), fx)
	i01 := lerp(corner(0, 0, 1), corner(1, 0, 1), fx)
	i11 := lerp(corner(0, 1, 1), corner(1, 1, 1), fx)

	return lerp(lerp(i00, i10, fy), lerp(i01, i11, fy), fz)
}

type octaves struct {
	count       int
	persistence float64
	lacunarity  float64
}

func (o octaves) sum(seed int64, sample func(freq float64, seed int64) float64) float64 {
	amplitude, frequency := 1.0, 1.0
	total, norm := 0.0, 0.0
	for i := range o.count {
		total += sample(frequency, seed+int64(i*131)) * amplitude
		norm += amplitude
		amplitude *= o.persistence
		frequency *= o.lacunarity
	}
	if norm == 0 {
		return 0
	}
	return total / norm
}

func octaveNoise2D(x, z float64, seed int64, o octaves) float64 {
	return o.sum(seed, func(f float64, s int64) float64 {
		return valueNoise2D(x*f, z*f, s)
	})
}

func octaveNoise3D(x, y, z float64, seed int64, o octaves) float64 {
	return o.sum(seed, func(f float64, s int64) float64 {
		return valueNoise3D(x*f, y*f, z*f, s)
	})
}
