package sim

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs
type IDGenerator interface {
	// Generate an ID
	Generate() string
}

// Event ids are sequential so that repeated runs of the same trial log the
// same ids.
var idGenerator IDGenerator = &sequentialIDGenerator{}

// GetIDGenerator returns the ID generator of the process.
func GetIDGenerator() IDGenerator {
	return idGenerator
}

// NewUniqueID returns a globally unique ID. It names trials and output
// artifacts.
func NewUniqueID() string {
	return xid.New().String()
}

type sequentialIDGenerator struct {
	nextID atomic.Uint64
}

func (g *sequentialIDGenerator) Generate() string {
	return strconv.FormatUint(g.nextID.Add(1), 10)
}
