// Package system provides the admin surface's id-generation and clock
// adapters, keeping github.com/google/uuid confined to the adapters layer.
package system

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator mints random job/probe ids.
type IDGenerator struct{}

func (IDGenerator) NewID() string { return uuid.NewString() }

// SystemClock implements ports.Clock using wall-clock UTC time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
