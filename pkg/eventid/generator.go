package eventid

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
)

const (
	// Prefix is the prefix of every event identifier.
	Prefix = "OAV-"

	// DefaultMin is the smallest number drawn by default.
	DefaultMin = 100

	// DefaultMax is the largest number drawn by default.
	DefaultMax = 9999
)

// ErrInvalidRange is returned when the number range would produce identifiers outside of 3 to 4 digits.
var ErrInvalidRange = errors.New("invalid identifier range")

var idPattern = regexp.MustCompile(`^OAV-[0-9]{3,4}$`)

// Generator produces event identifiers of the form "OAV-<n>". It does not check the store for prior use, the caller
// must retry on a duplicate key.
type Generator struct {
	min int
	max int

	// intn returns a number in [0, n). Replaced in tests.
	intn func(n int) int
}

// NewGenerator creates a generator drawing uniformly from [low, high]. Both bounds must be 3 or 4 digit numbers.
func NewGenerator(low, high int) (*Generator, error) {
	if low < DefaultMin || high > DefaultMax || low > high {
		return nil, fmt.Errorf("%w: [%d, %d] must be within [%d, %d]", ErrInvalidRange, low, high, DefaultMin, DefaultMax)
	}

	return &Generator{
		min:  low,
		max:  high,
		intn: rand.Intn,
	}, nil
}

// Generate returns a new identifier.
func (g *Generator) Generate() string {
	n := g.min + g.intn(g.max-g.min+1)
	return Prefix + strconv.Itoa(n)
}

// Keyspace returns how many distinct identifiers the generator can produce.
func (g *Generator) Keyspace() int {
	return g.max - g.min + 1
}

// Valid reports whether id has the shape of an event identifier.
func Valid(id string) bool {
	return idPattern.MatchString(id)
}
