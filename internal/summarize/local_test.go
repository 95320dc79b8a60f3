package summarize

import (
	"context"
	"strings"
	"testing"
)

func TestLocalShortTextUnchanged(t *testing.T) {
	in := "Too short to summarize."
	out, err := Local{}.Summarize(context.Background(), in)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out != in {
		t.Errorf("short text changed: %q", out)
	}
}

func TestLocalFewSentencesUnchanged(t *testing.T) {
	in := "The first sentence is reasonably long and detailed. The second sentence adds even more context about the company. A third one closes it out."
	out, err := Local{}.Summarize(context.Background(), in)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out != in {
		t.Errorf("text with <= 5 sentences changed: %q", out)
	}
}

func TestLocalExtractsTopSentences(t *testing.T) {
	// Eight sentences; the ones repeating the dominant words should
	// survive, and the summary must keep original ordering.
	in := strings.Join([]string{
		"Tesla stock surged after strong earnings from Tesla.",
		"Bananas are yellow.",
		"Tesla earnings beat every analyst estimate for Tesla stock.",
		"The cafeteria served soup.",
		"Analysts raised Tesla stock targets on the earnings momentum.",
		"Somebody parked outside.",
		"Tesla said earnings growth will continue into next year.",
		"The stock closed higher as Tesla earnings dominated the session.",
	}, " ")

	out, err := Local{}.Summarize(context.Background(), in)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if !strings.Contains(out, "Tesla stock surged") {
		t.Errorf("expected dominant first sentence kept, got %q", out)
	}
	if strings.Contains(out, "Bananas") || strings.Contains(out, "cafeteria") {
		t.Errorf("expected filler sentences dropped, got %q", out)
	}

	// Original order preserved: the closing sentence comes last.
	if !strings.HasSuffix(out, "dominated the session.") {
		t.Errorf("expected original sentence order, got %q", out)
	}
}

func TestLocalDeterministic(t *testing.T) {
	in := strings.Repeat("Tesla shares rose on strong earnings. The market cheered loudly. ", 6)
	first, _ := Local{}.Summarize(context.Background(), in)
	for i := 0; i < 5; i++ {
		got, _ := Local{}.Summarize(context.Background(), in)
		if got != first {
			t.Fatalf("non-deterministic summary:\n%q\n%q", first, got)
		}
	}
}

func TestLocalMaxSentencesOverride(t *testing.T) {
	in := strings.Join([]string{
		"Sentence number one talks about revenue and revenue again.",
		"Sentence number two is about revenue too.",
		"Sentence three covers revenue growth in detail.",
		"Sentence four is filler about weather.",
		"Sentence five mentions revenue once more.",
	}, " ")

	out, err := Local{MaxSentences: 2}.Summarize(context.Background(), in)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got := len(strings.Split(out, ". ")); got > 2 {
		t.Errorf("expected at most 2 sentences, got %d: %q", got, out)
	}
}
