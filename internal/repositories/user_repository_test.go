package repositories

import (
	"encoding/json"
	"testing"
)

func TestSubscriberNeedle(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"news", `["news"]`},
		{"announcements", `["announcements"]`},
		{`qu"ote`, `["qu\"ote"]`},
		{`back\slash`, `["back\\slash"]`},
	}
	for _, tt := range tests {
		if got := subscriberNeedle(tt.category); got != tt.want {
			t.Errorf("subscriberNeedle(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestSubscriberNeedleIsValidJSON(t *testing.T) {
	for _, category := range []string{"news", `with"quote`, `with\backslash`, "non-ascii 市政"} {
		var decoded []string
		if err := json.Unmarshal([]byte(subscriberNeedle(category)), &decoded); err != nil {
			t.Errorf("needle for %q is not valid JSON: %v", category, err)
			continue
		}
		if len(decoded) != 1 || decoded[0] != category {
			t.Errorf("needle for %q decoded to %v", category, decoded)
		}
	}
}
