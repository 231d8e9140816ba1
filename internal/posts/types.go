package posts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post is a blog entry authored in Markdown.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID             uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Slug           string     `bun:"slug,notnull,unique" json:"slug"`
	Title          string     `bun:"title,notnull" json:"title"`
	Summary        string     `bun:"summary" json:"summary,omitempty"`
	Body           string     `bun:"body,notnull" json:"body,omitempty"`
	BodyHTML       string     `bun:"-" json:"body_html,omitempty"`
	Tags           []string   `bun:"tags,type:jsonb" json:"tags"`
	Author         string     `bun:"author" json:"author,omitempty"`
	Status         string     `bun:"status,notnull,default:'draft'" json:"status"`
	PublishedAt    *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	ReadingMinutes int        `bun:"reading_minutes,notnull,default:1" json:"reading_minutes"`
	URL            string     `bun:"-" json:"url,omitempty"`
	SourcePath     string     `bun:"source_path" json:"-"`
	Checksum       string     `bun:"checksum" json:"-"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Published reports whether the post is visible on the public site.
func (p *Post) Published() bool {
	return p != nil && p.Status == StatusPublished
}

func clonePost(src *Post) *Post {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.Tags = append([]string(nil), src.Tags...)
	if src.PublishedAt != nil {
		t := *src.PublishedAt
		cloned.PublishedAt = &t
	}
	return &cloned
}
