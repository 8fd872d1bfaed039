package provision

import (
	"fmt"

	"rustpanel/internal/domain"
)

// Ports is one allocated port triple for a new instance.
type Ports struct {
	Game  int
	Rcon  int
	Query int
}

// AllocatePorts picks the next free game port: the highest in-range game
// port currently assigned, advanced by offset. Ports climb monotonically and
// are never reused, even after deletion, so a deleted-but-not-fully-dead
// process can't collide with a new one. The RCON port sits one above the
// game port, the query port a thousand below.
func AllocatePorts(existing []domain.Instance, rangeStart, rangeEnd, offset int) (Ports, error) {
	maxSlot := 0
	for _, def := range existing {
		if def.GamePort < rangeStart {
			continue
		}
		slot := (def.GamePort-rangeStart)/offset + 1
		if slot > maxSlot {
			maxSlot = slot
		}
	}

	game := rangeStart + maxSlot*offset
	if game > rangeEnd {
		return Ports{}, fmt.Errorf("port range %d-%d exhausted: %w",
			rangeStart, rangeEnd, domain.ErrInvalidOperation)
	}

	return Ports{
		Game:  game,
		Rcon:  game + 1,
		Query: game - 1000,
	}, nil
}
