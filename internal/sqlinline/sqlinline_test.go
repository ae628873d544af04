package sqlinline

import (
	"strings"
	"testing"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra"
)

func TestQueriesCarryUniqueMarkers(t *testing.T) {
	seen := make(map[string]string, len(All))
	for name, query := range All {
		marker, body, err := infra.ExtractMarker(query)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if strings.TrimSpace(body) == "" {
			t.Fatalf("%s: empty query body", name)
		}
		if other, ok := seen[marker]; ok {
			t.Fatalf("%s reuses marker %s from %s", name, marker, other)
		}
		seen[marker] = name
	}
}
