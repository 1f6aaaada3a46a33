package core

import (
	"math/rand/v2"
)

// pcgStream selects the PCG increment shared by every path stream. Streams
// differ only by their hashed seed.
const pcgStream = 0xda3e39cb94b95bdb

// Hash is an integer avalanche hash: every input bit affects every output bit,
// so adjacent pixel, iteration and depth values produce unrelated seeds.
func Hash(a uint32) uint32 {
	a = (a + 0x7ed55d16) + (a << 12)
	a = (a ^ 0xc761c23c) ^ (a >> 19)
	a = (a + 0x165667b1) + (a << 5)
	a = (a + 0xd3a2646c) ^ (a << 9)
	a = (a + 0xfd7046c5) + (a << 3)
	a = (a ^ 0xb55a4f09) ^ (a >> 16)
	return a
}

// SeedFor derives the stream seed for one path at one bounce. Iteration
// occupies the low 22 bits and depth the next 9; the pixel index is hashed
// separately and mixed in.
func SeedFor(pixel, iteration, depth int) uint64 {
	lo := Hash(uint32(1<<31)|uint32(depth)<<22|uint32(iteration)) ^ Hash(uint32(pixel))
	hi := Hash(lo ^ 0x9e3779b9)
	return uint64(hi)<<32 | uint64(lo)
}

// Stream is a reproducible uniform [0,1) sequence owned by a single path.
// It must not be shared between goroutines.
type Stream struct {
	random *rand.Rand
}

// NewStream builds the stream for (pixel, iteration, depth). Two calls with
// the same arguments yield identical sequences.
func NewStream(pixel, iteration, depth int) *Stream {
	return NewStreamFromSeed(SeedFor(pixel, iteration, depth))
}

// NewStreamFromSeed builds a stream from an explicit seed
func NewStreamFromSeed(seed uint64) *Stream {
	return &Stream{random: rand.New(rand.NewPCG(seed, pcgStream))}
}

// Get1D returns a random float64 in [0, 1)
func (s *Stream) Get1D() float64 {
	return s.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (s *Stream) Get2D() Vec2 {
	return NewVec2(s.random.Float64(), s.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (s *Stream) Get3D() Vec3 {
	return NewVec3(s.random.Float64(), s.random.Float64(), s.random.Float64())
}
