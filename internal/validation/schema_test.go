package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	return v
}

func TestValidatorKinds(t *testing.T) {
	kinds := newValidator(t).Kinds()
	if strings.Join(kinds, ",") != "case_study,post" {
		t.Fatalf("unexpected kinds %v", kinds)
	}
}

func TestValidateFrontMatterAcceptsPost(t *testing.T) {
	raw := map[string]any{
		"title": "Hello",
		"slug":  "hello-world",
		"tags":  []string{"go"},
		"date":  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		"draft": false,
		"extra": map[any]any{"nested": 1},
	}
	if err := newValidator(t).ValidateFrontMatter(KindPost, raw); err != nil {
		t.Fatalf("expected valid post, got %v", err)
	}
}

func TestValidateFrontMatterReportsIssues(t *testing.T) {
	raw := map[string]any{
		"slug":     "Not A Slug",
		"position": -1,
	}
	err := newValidator(t).ValidateFrontMatter(KindCaseStudy, raw)
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}

	issues := Issues(err)
	if len(issues) < 3 {
		t.Fatalf("expected missing title, bad slug and bad position issues, got %+v", issues)
	}
	joined := err.Error()
	for _, want := range []string{"/slug", "/position"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in %q", want, joined)
		}
	}
}

func TestValidateFrontMatterUnknownKind(t *testing.T) {
	if err := newValidator(t).ValidateFrontMatter("page", nil); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}
