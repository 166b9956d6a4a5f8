// Package rng builds the deterministic random sources used during generation.
//
// Every floor draws from exactly one *rand.Rand. Its seed is derived from the
// run seed and the floor index, so a floor's output depends only on
// (seed, zone configuration, floor index) and not on which floors were
// generated before it.
package rng

import (
	"encoding/binary"
	"math/rand/v2"

	"golang.org/x/crypto/blake2b"
)

// Derive mixes base with the given labels into a new seed.
func Derive(base uint64, labels ...int64) uint64 {
	buf := make([]byte, 8*(len(labels)+1))
	binary.LittleEndian.PutUint64(buf, base)
	for i, l := range labels {
		binary.LittleEndian.PutUint64(buf[8*(i+1):], uint64(l))
	}
	sum := blake2b.Sum256(buf)
	return binary.LittleEndian.Uint64(sum[:8])
}

// New returns a PCG-backed source for seed.
func New(seed uint64) *rand.Rand {
	sum := blake2b.Sum256(binary.LittleEndian.AppendUint64(nil, seed))
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(sum[:8]),
		binary.LittleEndian.Uint64(sum[8:16]),
	))
}

// ForFloor returns the shared source for one floor of a run.
func ForFloor(seed uint64, floorIndex int) *rand.Rand {
	return New(Derive(seed, int64(floorIndex)))
}
