package ai

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// stubCompleter 记录收到的提示词并返回预置结果。
type stubCompleter struct {
	response string
	err      error

	prompts []string
	opts    []CompleteOptions
}

func (s *stubCompleter) Complete(_ context.Context, prompt string, opts CompleteOptions) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.opts = append(s.opts, opts)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestSuggestContent_ParsesModelOutput(t *testing.T) {
	stub := &stubCompleter{response: `{"summary":"Ships reliable services.","skills":["Go","SQL","Docker","gRPC","Kubernetes"]}`}
	svc := NewService(stub, "fast-model", "big-model", nil)

	got, err := svc.SuggestContent(context.Background(), "Backend Engineer", []string{"Go"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Summary != "Ships reliable services." {
		t.Fatalf("summary: %q", got.Summary)
	}
	if len(got.Skills) != 5 {
		t.Fatalf("skills: %v", got.Skills)
	}

	if len(stub.opts) != 1 || !stub.opts[0].JSONMode {
		t.Fatal("suggestion path must request JSON mode")
	}
	if stub.opts[0].Model != "fast-model" {
		t.Fatalf("model: %q", stub.opts[0].Model)
	}
	if !strings.Contains(stub.prompts[0], `"Backend Engineer"`) {
		t.Fatal("prompt missing job title")
	}
	if !strings.Contains(stub.prompts[0], "already has these skills: Go") {
		t.Fatal("prompt missing current skills")
	}
}

func TestSuggestContent_MalformedOutput(t *testing.T) {
	stub := &stubCompleter{response: "Sure! Here are some skills..."}
	svc := NewService(stub, "fast-model", "big-model", nil)

	_, err := svc.SuggestContent(context.Background(), "Backend Engineer", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindMalformedResponse {
		t.Fatalf("expected malformed_response, got %v", KindOf(err))
	}
}

func TestGeneratePortfolio_RestoresPhotoAndStripsFences(t *testing.T) {
	photo := "data:image/png;base64,AAAA"
	resume, _ := json.Marshal(map[string]any{
		"personalInfo": map[string]any{"fullName": "Ada", "photoUrl": photo},
	})

	stub := &stubCompleter{
		response: "```html\n<html><body><img src=\"" + PhotoSentinel + "\"></body></html>\n```",
	}
	svc := NewService(stub, "fast-model", "big-model", nil)

	html, err := svc.GeneratePortfolio(context.Background(), PortfolioRequest{
		ResumeData: resume,
		Theme:      "cyberpunk",
		Palette:    "ocean",
	})
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(html, "```") {
		t.Fatal("code fences survived post-processing")
	}
	if !strings.Contains(html, photo) {
		t.Fatal("photo not restored")
	}
	if strings.Contains(html, PhotoSentinel) {
		t.Fatal("sentinel survived restore")
	}
	if !strings.Contains(html, "function handleNavClick") {
		t.Fatal("nav guard missing")
	}

	// 照片绝不允许进入提示词。
	if strings.Contains(stub.prompts[0], photo) {
		t.Fatal("photo payload leaked into prompt")
	}
	if !strings.Contains(stub.prompts[0], PhotoSentinel) {
		t.Fatal("prompt missing sentinel")
	}
	if stub.opts[0].Model != "big-model" {
		t.Fatalf("model: %q", stub.opts[0].Model)
	}
	if stub.opts[0].JSONMode {
		t.Fatal("portfolio path must not request JSON mode")
	}
}

func TestGeneratePortfolio_ThemeFallbackDeterministic(t *testing.T) {
	resume := json.RawMessage(`{"personalInfo":{"fullName":"Ada"}}`)

	prompts := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		stub := &stubCompleter{response: "<html><body></body></html>"}
		svc := NewService(stub, "fast-model", "big-model", nil)
		if _, err := svc.GeneratePortfolio(context.Background(), PortfolioRequest{
			ResumeData: resume,
			Theme:      "definitely-not-a-theme",
		}); err != nil {
			t.Fatal(err)
		}
		prompts = append(prompts, stub.prompts[0])
	}

	if prompts[0] != prompts[1] {
		t.Fatal("fallback prompt not deterministic")
	}
	if !strings.Contains(prompts[0], "BENTO GRID") {
		t.Fatal("fallback did not select the modern architecture")
	}
}

func TestGeneratePortfolio_CustomPromptEmbedded(t *testing.T) {
	stub := &stubCompleter{response: "<html><body></body></html>"}
	svc := NewService(stub, "fast-model", "big-model", nil)

	_, err := svc.GeneratePortfolio(context.Background(), PortfolioRequest{
		ResumeData:   json.RawMessage(`{}`),
		CustomPrompt: "Make the hero section monochrome.",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stub.prompts[0], "Make the hero section monochrome.") {
		t.Fatal("custom prompt missing")
	}
}

func TestGeneratePortfolio_InvalidResumeData(t *testing.T) {
	stub := &stubCompleter{response: "<html></html>"}
	svc := NewService(stub, "fast-model", "big-model", nil)

	_, err := svc.GeneratePortfolio(context.Background(), PortfolioRequest{
		ResumeData: json.RawMessage(`[1,2,3`),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation, got %v", KindOf(err))
	}
	if len(stub.prompts) != 0 {
		t.Fatal("completer must not be called for invalid input")
	}
}

func TestGeneratePortfolio_CompleterErrorPassesThrough(t *testing.T) {
	stub := &stubCompleter{err: newError(KindRateLimited, "AI rate limit reached")}
	svc := NewService(stub, "fast-model", "big-model", nil)

	_, err := svc.GeneratePortfolio(context.Background(), PortfolioRequest{
		ResumeData: json.RawMessage(`{}`),
	})
	if KindOf(err) != KindRateLimited {
		t.Fatalf("expected rate_limited, got %v", err)
	}
}
