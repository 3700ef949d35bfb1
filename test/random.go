package test

import (
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/onsi/ginkgo/v2"
)

var (
	Faker  = faker.NewWithSeed(Source)
	Rand   = rand.New(Source)
	Source = rand.NewSource(ginkgo.GinkgoRandomSeed())
)

// RandomTimeBetween returns a random UTC instant in [from, to), truncated to the second.
func RandomTimeBetween(from, to time.Time) time.Time {
	span := to.Sub(from)
	if span <= 0 {
		return from.UTC().Truncate(time.Second)
	}
	return from.Add(time.Duration(Rand.Int63n(int64(span)))).UTC().Truncate(time.Second)
}
