package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
// Keys must be prefixed by entity kind so different kinds never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PostUUID is the ID of the post imported under slug.
func PostUUID(slug string) uuid.UUID {
	return UUID("portfolio:post:" + strings.ToLower(strings.TrimSpace(slug)))
}

func CaseStudyUUID(slug string) uuid.UUID {
	return UUID("portfolio:case_study:" + strings.ToLower(strings.TrimSpace(slug)))
}

func TestimonialUUID(author, quote string) uuid.UUID {
	return UUID("portfolio:testimonial:" + strings.ToLower(strings.TrimSpace(author)) + ":" + strings.TrimSpace(quote))
}
