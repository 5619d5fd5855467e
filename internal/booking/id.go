package booking

import (
	"fmt"
	"math/rand"
	"time"
)

// idPrefix marks generated booking IDs.
const idPrefix = "BK"

// IDGenerator produces booking IDs of the form
// BK<unix-milliseconds><random 0..999>. IDs are unique with
// overwhelming probability but NOT guaranteed unique: two requests in
// the same millisecond drawing the same suffix collide. The clock and
// random source are injectable so tests can exercise that case.
type IDGenerator struct {
	now  func() time.Time
	intn func(n int) int
}

// NewIDGenerator returns a generator backed by the wall clock and
// math/rand.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now, intn: rand.Intn}
}

// NewIDGeneratorWithSource returns a generator with an explicit clock
// and random source.
func NewIDGeneratorWithSource(now func() time.Time, intn func(n int) int) *IDGenerator {
	return &IDGenerator{now: now, intn: intn}
}

// Next generates one booking ID.
func (g *IDGenerator) Next() string {
	return fmt.Sprintf("%s%d%d", idPrefix, g.now().UnixMilli(), g.intn(1000))
}
