package idgen

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/sonyflake"
)

// Generator hands out numeric record identities
type Generator interface {
	NextID() (int64, error)
}

// SonyFlakeGenerator produces roughly time ordered positive int64 ids
type SonyFlakeGenerator struct {
	sf *sonyflake.Sonyflake
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// NewFlakeGenerator creates a generator. A zero machineID lets sonyflake derive
// one from the host's private IP address.
func NewFlakeGenerator(machineID uint16) (*SonyFlakeGenerator, error) {
	settings := sonyflake.Settings{
		StartTime: epoch,
	}
	if machineID != 0 {
		settings.MachineID = func() (uint16, error) {
			return machineID, nil
		}
	}

	sf, err := sonyflake.New(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create sonyflake: %w", err)
	}
	if sf == nil {
		return nil, errors.New("failed to create Sonyflake instance")
	}
	return &SonyFlakeGenerator{sf: sf}, nil
}

// NextID returns the next id
func (g *SonyFlakeGenerator) NextID() (int64, error) {
	v, err := g.sf.NextID()
	if err != nil {
		return 0, fmt.Errorf("failed to generate id: %w", err)
	}
	return int64(v), nil
}
