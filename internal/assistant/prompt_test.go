package assistant

import (
	"strings"
	"testing"

	"github.com/fyreone/fyreone/internal/knowledge"
)

func TestBuildPrompt(t *testing.T) {
	matches := []knowledge.Match{
		{Text: "AS1851 requires monthly pump checks.", Filename: "as1851.pdf"},
		{Text: "Fire doors must self-close and self-latch.", Filename: "ncc.pdf"},
	}

	prompt := buildPrompt("How often are pumps checked?", matches)

	if !strings.Contains(prompt, "You are FyreOne") {
		t.Error("prompt missing persona")
	}
	if !strings.Contains(prompt, "AS1851 requires monthly pump checks.\n\nFire doors must self-close and self-latch.") {
		t.Error("prompt missing joined knowledge block")
	}
	if !strings.Contains(prompt, "QUESTION: How often are pumps checked?") {
		t.Error("prompt missing question")
	}
	if !strings.HasSuffix(prompt, "Answer naturally and helpfully:") {
		t.Error("prompt missing answer cue")
	}
}

func TestBuildPrompt_DeduplicatesAndSkipsEmptyTexts(t *testing.T) {
	matches := []knowledge.Match{
		{Text: "Snippet A", Filename: "a.pdf"},
		{Text: "", Filename: "b.pdf"},
		{Text: "Snippet A", Filename: "c.pdf"},
		{Text: "Snippet B", Filename: "d.pdf"},
	}

	prompt := buildPrompt("q", matches)

	if got := strings.Count(prompt, "Snippet A"); got != 1 {
		t.Errorf("Snippet A appears %d times, want 1", got)
	}
	if !strings.Contains(prompt, "Snippet A\n\nSnippet B") {
		t.Error("snippets not joined in first-seen order")
	}
}

func TestSourceList(t *testing.T) {
	matches := []knowledge.Match{
		{Text: "a", Filename: "as1851.pdf"},
		{Text: "b", Filename: "ncc.pdf"},
		{Text: "c", Filename: "as1851.pdf"},
		{Text: "d", Filename: ""},
		{Text: "e", Filename: "as1670.pdf"},
	}

	got := sourceList(matches)
	want := []string{"as1851.pdf", "ncc.pdf", "as1670.pdf"}

	if len(got) != len(want) {
		t.Fatalf("sourceList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sourceList()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSourceList_Empty(t *testing.T) {
	if got := sourceList(nil); len(got) != 0 {
		t.Errorf("sourceList(nil) = %v, want empty", got)
	}
}

func BenchmarkBuildPrompt(b *testing.B) {
	matches := make([]knowledge.Match, 5)
	for i := range matches {
		matches[i] = knowledge.Match{
			Text:     strings.Repeat("Fire safety compliance requirements for Australian buildings. ", 20),
			Filename: "doc.pdf",
		}
	}

	for b.Loop() {
		buildPrompt("What are the sprinkler inspection intervals under AS1851?", matches)
	}
}
