package gsm

import (
	"strings"
	"testing"
)

func TestTailBufferBounds(t *testing.T) {
	var buf tailBuffer

	chunk := strings.Repeat("x", 500)
	for i := 0; i < 10; i++ {
		buf.Write([]byte(chunk))
	}

	if len(buf.String()) != outputLimit {
		t.Errorf("Expected bounded length %d, got %d", outputLimit, len(buf.String()))
	}
}

func TestTailBufferKeepsLatest(t *testing.T) {
	var buf tailBuffer

	buf.Write([]byte(strings.Repeat("a", outputLimit)))
	buf.Write([]byte("THE END"))

	out := buf.String()
	if !strings.HasSuffix(out, "THE END") {
		t.Errorf("Expected suffix preserved, got tail %q", out[len(out)-20:])
	}
	if len(out) != outputLimit {
		t.Errorf("Expected length %d, got %d", outputLimit, len(out))
	}
}
