package ai

import (
	"encoding/json"
	"strings"
	"testing"
)

const testPhoto = "data:image/png;base64,AAAA"

func resumeWithPhoto(t *testing.T, photo string) json.RawMessage {
	t.Helper()
	doc := map[string]any{
		"title": "My Resume",
		"personalInfo": map[string]any{
			"fullName": "Ada Lovelace",
			"email":    "ada@example.com",
			"photoUrl": photo,
		},
		"skills": []string{"Go", "SQL"},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestSanitize_ReplacesPhotoWithSentinel(t *testing.T) {
	original := resumeWithPhoto(t, testPhoto)

	sanitized, restore, err := Sanitize(original)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(string(sanitized), testPhoto) {
		t.Fatal("sanitized document still contains photo payload")
	}
	if !strings.Contains(string(sanitized), PhotoSentinel) {
		t.Fatal("sanitized document missing sentinel")
	}
	if !restore.HasPhoto() {
		t.Fatal("restore map should carry the photo")
	}
}

func TestSanitize_DoesNotMutateOriginal(t *testing.T) {
	original := resumeWithPhoto(t, testPhoto)
	before := string(original)

	if _, _, err := Sanitize(original); err != nil {
		t.Fatal(err)
	}

	if string(original) != before {
		t.Fatal("caller's document was mutated")
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	original := resumeWithPhoto(t, testPhoto)
	_, restore, err := Sanitize(original)
	if err != nil {
		t.Fatal(err)
	}

	generated := `<img src="` + PhotoSentinel + `"> and again ` + PhotoSentinel
	final := restore.Apply(generated)

	if strings.Contains(final, PhotoSentinel) {
		t.Fatal("sentinel survived restore")
	}
	if strings.Count(final, testPhoto) != 2 {
		t.Fatalf("expected photo at every sentinel position, got: %s", final)
	}
}

func TestSanitize_NoPhotoIsNoop(t *testing.T) {
	original := resumeWithPhoto(t, "")

	sanitized, restore, err := Sanitize(original)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(sanitized), PhotoSentinel) {
		t.Fatal("sentinel injected for empty photo")
	}
	if restore.HasPhoto() {
		t.Fatal("restore should be empty")
	}

	// 没有照片时，模型凭空输出的占位符保持原样。
	text := "spurious " + PhotoSentinel + " token"
	if got := restore.Apply(text); got != text {
		t.Fatalf("restore altered text: %q", got)
	}
}

func TestSanitize_MissingPersonalInfo(t *testing.T) {
	sanitized, restore, err := Sanitize(json.RawMessage(`{"title":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	if restore.HasPhoto() {
		t.Fatal("restore should be empty")
	}
	if !json.Valid(sanitized) {
		t.Fatal("sanitized output is not valid JSON")
	}
}

func TestSanitize_RejectsNonObject(t *testing.T) {
	_, _, err := Sanitize(json.RawMessage(`"just a string"`))
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation kind, got %v", KindOf(err))
	}
}
