package httpapi

import (
	"testing"

	sonic "github.com/bytedance/sonic"
)

func TestWireID_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    wireID
		wantErr bool
	}{
		{name: "string", in: `" 8478402 "`, want: "8478402"},
		{name: "integer", in: `8478402`, want: "8478402"},
		{name: "object", in: `{"id": 8478402, "name": "Connor McDavid"}`, want: "8478402"},
		{name: "null", in: `null`, want: ""},
		{name: "float", in: `8.5`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got wireID
			err := sonic.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s, got %q", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestPicksPayload_ToDomainDropsUnknownKeys(t *testing.T) {
	var payload picksPayload
	raw := `{"round1": {"W1": "wpg", "9": "BOS", "X7": "CAR"}, "round2": {"w-semi": ["A", "B"], "w-semi-winner": "wpg", "junk": "DAL"}}`
	if err := sonic.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal picks: %v", err)
	}

	picks := payload.toDomain()
	if len(picks.Round1) != 1 || picks.Round1["W1"] != "WPG" {
		t.Fatalf("unexpected round1: %+v", picks.Round1)
	}
	if len(picks.Round2) != 1 || picks.Round2["w-semi-winner"] != "WPG" {
		t.Fatalf("unexpected round2: %+v", picks.Round2)
	}
}
