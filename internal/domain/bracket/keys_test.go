package bracket

import "testing"

func TestBracketKey(t *testing.T) {
	tests := []struct {
		round  Round
		code   string
		want   string
		wantOK bool
	}{
		{round: RoundOne, code: "W3", want: "W3", wantOK: true},
		{round: RoundOne, code: "E4", want: "E4", wantOK: true},
		{round: RoundOne, code: "w-semi", wantOK: false},
		{round: RoundTwo, code: "W1", want: CodeWestSemi, wantOK: true},
		{round: RoundTwo, code: "W2", want: CodeWestSemi2, wantOK: true},
		{round: RoundTwo, code: "E1", want: CodeEastSemi, wantOK: true},
		{round: RoundTwo, code: "E2", want: CodeEastSemi2, wantOK: true},
		{round: RoundTwo, code: "e-semi2", want: CodeEastSemi2, wantOK: true},
		{round: RoundThree, code: "W1", want: CodeWestFinal, wantOK: true},
		{round: RoundThree, code: "E1", want: CodeEastFinal, wantOK: true},
		{round: RoundThree, code: "east-final", want: CodeEastFinal, wantOK: true},
		{round: RoundFinal, code: "F1", want: CodeCup, wantOK: true},
		{round: RoundFinal, code: "", want: CodeCup, wantOK: true},
		{round: RoundTwo, code: "", wantOK: false},
		{round: Round(9), code: "W1", wantOK: false},
	}

	for _, tc := range tests {
		got, ok := BracketKey(tc.round, tc.code)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("BracketKey(%d, %q) = (%q, %v), want (%q, %v)", tc.round, tc.code, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestParseMatchupRef(t *testing.T) {
	tests := []struct {
		raw     string
		want    MatchupRef
		wantErr bool
	}{
		{raw: "W1", want: FirstRoundRef{MatchupCode: "W1"}},
		{raw: " 6 ", want: FirstRoundRef{MatchupCode: "E2"}},
		{raw: "w-semi2-winner", want: SecondRoundRef{MatchupCode: "w-semi2"}},
		{raw: "east-final", want: ConferenceFinalRef{MatchupCode: "east-final"}},
		{raw: "cup-winner", want: FinalRef{}},
		{raw: "9", wantErr: true},
		{raw: "north-final", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseMatchupRef(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseMatchupRef(%q) expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseMatchupRef(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMatchupRef(%q) = %#v, want %#v", tc.raw, got, tc.want)
		}
	}
}
