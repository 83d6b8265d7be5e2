package markdown

import (
	"strings"
	"testing"
)

type panicRenderer struct{}

func (panicRenderer) Render(string) (string, error) {
	panic("boom")
}

func TestSafeRender_RecoversFromRendererPanic(t *testing.T) {
	const renderWidth = 20

	rendererMu.Lock()
	prev, hadPrev := renderers[renderWidth]
	renderers[renderWidth] = panicRenderer{}
	rendererMu.Unlock()

	defer func() {
		rendererMu.Lock()
		if hadPrev {
			renderers[renderWidth] = prev
		} else {
			delete(renderers, renderWidth)
		}
		rendererMu.Unlock()
	}()

	out := SafeRender(renderWidth, 0, []byte("hello\n"))
	if string(out) != "hello" {
		t.Fatalf("expected fallback to original markdown, got %q", string(out))
	}
}

func TestRender_Empty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "   \r\n"} {
		if out := Render(80, 2, []byte(input)); out != nil {
			t.Errorf("Render(%q) = %q, want nil", input, out)
		}
	}
}

func TestRender_IndentsEveryLine(t *testing.T) {
	out := string(Render(60, 4, []byte("Redesign the **public** site.\n\nSecond paragraph.")))
	if out == "" {
		t.Fatal("expected rendered output")
	}
	for _, line := range strings.Split(out, "\n") {
		if line != "" && !strings.HasPrefix(line, "    ") {
			t.Fatalf("expected 4-space indent on %q", line)
		}
	}
	if !strings.Contains(out, "public") || !strings.Contains(out, "Second paragraph.") {
		t.Fatalf("expected text to survive rendering, got %q", out)
	}
}

func TestReflowParagraphs(t *testing.T) {
	got := ReflowParagraphs("one two three four\nfive\r\n\r\nsix   seven", 9)
	want := "one two\nthree\nfour five\n\nsix seven"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if ReflowParagraphs("  \n ", 10) != "" {
		t.Fatal("expected blank input to reflow to empty")
	}
}

func TestIndentBlock(t *testing.T) {
	if got := IndentBlock("a\nb\n", 2); got != "  a\n  b" {
		t.Fatalf("unexpected indent: %q", got)
	}
	if got := IndentBlock("a", 0); got != "a" {
		t.Fatalf("unexpected zero indent: %q", got)
	}
}
