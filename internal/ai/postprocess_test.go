package ai

import (
	"strings"
	"testing"
)

func TestStripCodeFences_WithLanguageTag(t *testing.T) {
	raw := "```html\n<!DOCTYPE html><html></html>\n```"
	got := StripCodeFences(raw)
	want := "<!DOCTYPE html><html></html>"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestStripCodeFences_Idempotent(t *testing.T) {
	raw := "```json\n{\"a\":1}\n```"
	once := StripCodeFences(raw)
	twice := StripCodeFences(once)
	if once != twice {
		t.Fatalf("not idempotent: %q vs %q", once, twice)
	}
}

func TestStripCodeFences_NoFencesIsNoop(t *testing.T) {
	raw := "<html><body>plain</body></html>"
	if got := StripCodeFences(raw); got != raw {
		t.Fatalf("got %q", got)
	}
}

func TestParseSuggestion_Valid(t *testing.T) {
	s, err := ParseSuggestion(`{"summary":"Builds backends.","skills":["Go","SQL","Docker","gRPC","Kubernetes"]}`)
	if err != nil {
		t.Fatal(err)
	}
	if s.Summary != "Builds backends." {
		t.Fatalf("summary: %q", s.Summary)
	}
	if len(s.Skills) != 5 {
		t.Fatalf("skills: %v", s.Skills)
	}
}

func TestParseSuggestion_FencedJSON(t *testing.T) {
	s, err := ParseSuggestion("```json\n{\"summary\":\"x\",\"skills\":[\"Go\"]}\n```")
	if err != nil {
		t.Fatal(err)
	}
	if s.Summary != "x" {
		t.Fatalf("summary: %q", s.Summary)
	}
}

func TestParseSuggestion_MalformedKind(t *testing.T) {
	_, err := ParseSuggestion("I am not JSON, sorry.")
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindMalformedResponse {
		t.Fatalf("expected malformed_response, got %v", KindOf(err))
	}
}

func TestEnsureNavGuard_InjectsWhenMissing(t *testing.T) {
	html := "<html><body><a href=\"#home\">Home</a></body></html>"
	got := EnsureNavGuard(html)
	if !strings.Contains(got, "function handleNavClick") {
		t.Fatal("nav guard not injected")
	}
	if !strings.Contains(got, navGuardScript+"\n</body>") {
		t.Fatalf("script not placed before </body>: %s", got)
	}
}

func TestEnsureNavGuard_LeavesExistingHandler(t *testing.T) {
	html := "<html><body><script>function handleNavClick(e, t) {}</script></body></html>"
	if got := EnsureNavGuard(html); got != html {
		t.Fatalf("modified document that already had a handler: %q", got)
	}
}

func TestEnsureNavGuard_NoBodyTag(t *testing.T) {
	html := "<div>fragment</div>"
	got := EnsureNavGuard(html)
	if !strings.Contains(got, "function handleNavClick") {
		t.Fatal("nav guard not appended")
	}
}
