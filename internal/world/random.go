package world

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// DefaultSeed is used when a round is started without an explicit seed.
const DefaultSeed = "residential"

// DeterministicSeedValue hashes a root seed and a subsystem label into a
// stable 64-bit seed so every subsystem draws from its own stream.
func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// NewDeterministicRNG returns a seeded source for the given subsystem label.
func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(DeterministicSeedValue(rootSeed, label)))
}

func randomFloat(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.New(rand.NewSource(DeterministicSeedValue(DefaultSeed, "world"))).Float64()
	}
	return rng.Float64()
}

func randomAngle(rng *rand.Rand) float64 {
	return randomFloat(rng) * 2 * math.Pi
}

func randomRange(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + randomFloat(rng)*(max-min)
}

func randomUnitVector(rng *rand.Rand) Vec2 {
	angle := randomAngle(rng)
	return Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
}
