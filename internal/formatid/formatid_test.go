package formatid_test

import (
	"encoding/json"
	"testing"

	"ytstream/internal/formatid"
)

func TestRoundTrip(t *testing.T) {
	cases := []string{"137", "137+251", "137+251+srt", ""}
	for _, s := range cases {
		id := formatid.Parse(s)
		if got := id.String(); got != s {
			t.Errorf("round trip: Parse(%q).String() = %q", s, got)
		}
	}
}

func TestCompoundIDsJoin(t *testing.T) {
	id := formatid.Parse("137+251")
	var joined []string
	for _, atom := range id.CompoundIDs() {
		joined = append(joined, atom.String())
	}
	got := ""
	for i, s := range joined {
		if i > 0 {
			got += "+"
		}
		got += s
	}
	if got != id.String() {
		t.Errorf("compoundIds join = %q, want %q", got, id.String())
	}
}

func TestOrderPreserved(t *testing.T) {
	id := formatid.Parse("251+137")
	atoms := id.CompoundIDs()
	if atoms[0].String() != "251" || atoms[1].String() != "137" {
		t.Errorf("order not preserved: %v", atoms)
	}
}

func TestIsEmpty(t *testing.T) {
	if !formatid.Parse("").IsEmpty() {
		t.Error("Parse(\"\") should be empty")
	}
	if formatid.Parse("137").IsEmpty() {
		t.Error("Parse(\"137\") should not be empty")
	}
	if !formatid.Parse("++").IsEmpty() {
		t.Error("Parse(\"++\") should discard empties and be empty")
	}
}

func TestEqualAndLess(t *testing.T) {
	a := formatid.Parse("137")
	b := formatid.Parse("137")
	c := formatid.Parse("251")
	if !a.Equal(b) {
		t.Error("expected equal")
	}
	if !a.Less(c) {
		t.Error("expected 137 < 251 lexicographically")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		FormatID formatid.ID `json:"format_id"`
	}
	in := wrapper{FormatID: formatid.Parse("137+251")}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var out wrapper
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !out.FormatID.Equal(in.FormatID) {
		t.Errorf("JSON round trip = %q, want %q", out.FormatID, in.FormatID)
	}
}
