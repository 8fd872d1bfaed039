package provision

import (
	"errors"
	"testing"

	"rustpanel/internal/domain"
)

func TestAllocatePortsFirst(t *testing.T) {
	ports, err := AllocatePorts(nil, 28015, 28915, 10)
	if err != nil {
		t.Fatalf("AllocatePorts failed: %v", err)
	}
	if ports.Game != 28015 || ports.Rcon != 28016 || ports.Query != 27015 {
		t.Errorf("Unexpected first allocation: %+v", ports)
	}
}

func TestAllocatePortsNext(t *testing.T) {
	existing := []domain.Instance{
		{ID: "a", GamePort: 28015},
		{ID: "b", GamePort: 28025},
	}

	ports, err := AllocatePorts(existing, 28015, 28915, 10)
	if err != nil {
		t.Fatalf("AllocatePorts failed: %v", err)
	}
	if ports.Game != 28035 {
		t.Errorf("Expected game port 28035, got %d", ports.Game)
	}
	if ports.Rcon != 28036 || ports.Query != 27035 {
		t.Errorf("Unexpected derived ports: %+v", ports)
	}
}

func TestAllocatePortsNeverReuses(t *testing.T) {
	// Only the high slot remains: deleted instances must not open a gap.
	existing := []domain.Instance{{ID: "c", GamePort: 28035}}

	ports, err := AllocatePorts(existing, 28015, 28915, 10)
	if err != nil {
		t.Fatalf("AllocatePorts failed: %v", err)
	}
	if ports.Game != 28045 {
		t.Errorf("Expected monotonic allocation 28045, got %d", ports.Game)
	}
}

func TestAllocatePortsIgnoresOutOfRange(t *testing.T) {
	// Static instances below the range don't consume slots.
	existing := []domain.Instance{{ID: "s", GamePort: 27000}}

	ports, err := AllocatePorts(existing, 28015, 28915, 10)
	if err != nil {
		t.Fatalf("AllocatePorts failed: %v", err)
	}
	if ports.Game != 28015 {
		t.Errorf("Expected 28015, got %d", ports.Game)
	}
}

func TestAllocatePortsExhausted(t *testing.T) {
	existing := []domain.Instance{{ID: "z", GamePort: 28025}}

	_, err := AllocatePorts(existing, 28015, 28030, 10)
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Errorf("Expected ErrInvalidOperation, got %v", err)
	}
}
