package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	first := PostUUID("hello-world")
	second := PostUUID("  Hello-World ")
	if first == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected normalised slugs to share an id: %s != %s", first, second)
	}
}

func TestUUIDSeparatesKinds(t *testing.T) {
	if PostUUID("launch") == CaseStudyUUID("launch") {
		t.Fatal("expected post and case study ids to differ for the same slug")
	}
}

func TestUUIDBlankKey(t *testing.T) {
	if got := UUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key, got %s", got)
	}
}
