package siteconditions

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand"
)

// Simulator is the deterministic stand-in for a real vision/solar
// service. All pseudo-random draws are seeded from the request itself,
// so identical input always yields bit-identical output.
type Simulator struct{}

// NewSimulator creates a Simulator.
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Name implements Provider.
func (s *Simulator) Name() string {
	return "simulated"
}

// Assess implements Provider. It never fails for a valid request.
func (s *Simulator) Assess(_ context.Context, req Request) (*Conditions, error) {
	rng := rand.New(rand.NewSource(seed(req)))

	seg := simulateSegmentation(rng)
	hours := simulateSunHours(rng, req.Centroid.Lat)

	return &Conditions{
		Segmentation:   seg,
		SunExposure:    ClassifyExposure(hours),
		AnnualSunHours: math.Round(hours),
		NDVI:           round2(0.10 + seg.VegetationPct/100*0.3),
		Source:         s.Name(),
	}, nil
}

// seed hashes the polygon vertices and area into a deterministic RNG
// seed.
func seed(req Request) int64 {
	h := fnv.New64a()
	var buf [8]byte
	write := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	for _, c := range req.Polygon {
		write(c.Lon)
		write(c.Lat)
	}
	write(req.AreaM2)
	return int64(h.Sum64())
}

// simulateSegmentation draws a surface breakdown inside the calibrated
// bands (asphalt 25-35, gravel 45-55, vegetation 5-15, obstacles 8-12)
// and normalizes it to 100.
func simulateSegmentation(rng *rand.Rand) Segmentation {
	asphalt := 25 + rng.Float64()*10
	gravel := 45 + rng.Float64()*10
	vegetation := 5 + rng.Float64()*10
	obstacles := 8 + rng.Float64()*4

	total := asphalt + gravel + vegetation + obstacles
	scale := 100 / total
	return Segmentation{
		AsphaltPct:    round2(asphalt * scale),
		GravelPct:     round2(gravel * scale),
		VegetationPct: round2(vegetation * scale),
		ObstaclesPct:  round2(obstacles * scale),
	}
}

// simulateSunHours estimates annual direct-sun hours from latitude band
// and a drawn shadow factor.
func simulateSunHours(rng *rand.Rand, lat float64) float64 {
	var base float64
	switch {
	case lat >= 41.5:
		base = 2200
	case lat >= 39.5:
		base = 2400
	default:
		base = 2600
	}
	shadow := 0.75 + rng.Float64()*0.20
	return base * shadow
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
