package store

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

func NewID() string {
	return ulid.Make().String()
}

// NewWagerNumber returns the human-facing wager reference.
func NewWagerNumber() string {
	return fmt.Sprintf("G%d", time.Now().UnixMilli())
}
