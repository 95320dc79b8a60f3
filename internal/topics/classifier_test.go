package topics

import (
	"reflect"
	"sort"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty text falls back to General",
			text: "",
			want: []string{General},
		},
		{
			name: "whitespace only",
			text: "   \t\n",
			want: []string{General},
		},
		{
			name: "no bucket matches",
			text: "The weather was pleasant in the hills today",
			want: []string{General},
		},
		{
			name: "finance keyword",
			text: "Stock market rally lifts the index",
			want: []string{Finance},
		},
		{
			name: "multiple topics",
			text: "Stock gains after electric vehicle launch",
			want: []string{Automotive, Finance},
		},
		{
			name: "case insensitive",
			text: "REGULATORY probe into EMISSION data",
			want: []string{Environment, Regulation},
		},
		{
			name: "substring inside longer word counts",
			text: "fintech startup raises funding", // "tech" inside "fintech"
			want: []string{Technology},
		},
		{
			name: "investigation triggers finance via invest",
			text: "investigation launched",
			want: []string{Finance},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyNeverEmpty(t *testing.T) {
	inputs := []string{"", "qqq", "stock", "the vehicle on the court is green tech"}
	for _, in := range inputs {
		if got := Classify(in); len(got) == 0 {
			t.Errorf("Classify(%q) returned empty set", in)
		}
	}
}

func TestClassifySorted(t *testing.T) {
	got := Classify("green tech cars and stock markets face new regulation")
	if !sort.StringsAreSorted(got) {
		t.Errorf("Classify result not sorted: %v", got)
	}
}

func TestTaxonomyIsACopy(t *testing.T) {
	tax := Taxonomy()
	if len(tax) != 6 {
		t.Fatalf("expected 6 topics in taxonomy, got %d", len(tax))
	}
	if len(tax[General]) != 0 {
		t.Errorf("General should have no keywords, got %v", tax[General])
	}

	// Mutating the returned map must not affect classification.
	tax[Finance][0] = "zzz-mutated"
	if got := Classify("finance news"); !reflect.DeepEqual(got, []string{Finance}) {
		t.Errorf("taxonomy mutation leaked into classifier: %v", got)
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 6 {
		t.Fatalf("expected 6 topics, got %d: %v", len(all), all)
	}
	if all[len(all)-1] != General {
		t.Errorf("expected General last, got %v", all)
	}
}
