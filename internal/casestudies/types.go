package casestudies

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Section is one "## " block of a case study. HTML is filled on read.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
	HTML    string `json:"html,omitempty"`
}

// CaseStudy describes a piece of client work.
type CaseStudy struct {
	bun.BaseModel `bun:"table:case_studies,alias:cs"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Slug        string     `bun:"slug,notnull,unique" json:"slug"`
	Title       string     `bun:"title,notnull" json:"title"`
	Client      string     `bun:"client" json:"client,omitempty"`
	Role        string     `bun:"role" json:"role,omitempty"`
	Summary     string     `bun:"summary" json:"summary,omitempty"`
	Sections    []Section  `bun:"sections,type:jsonb" json:"sections"`
	Stack       []string   `bun:"stack,type:jsonb" json:"stack"`
	Featured    bool       `bun:"featured,notnull,default:false" json:"featured"`
	Position    int        `bun:"position,notnull,default:0" json:"position"`
	Status      string     `bun:"status,notnull,default:'draft'" json:"status"`
	PublishedAt *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	URL         string     `bun:"-" json:"url,omitempty"`
	SourcePath  string     `bun:"source_path" json:"-"`
	Checksum    string     `bun:"checksum" json:"-"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (c *CaseStudy) Published() bool {
	return c != nil && c.Status == StatusPublished
}

func cloneCaseStudy(src *CaseStudy) *CaseStudy {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.Sections = append([]Section(nil), src.Sections...)
	cloned.Stack = append([]string(nil), src.Stack...)
	if src.PublishedAt != nil {
		t := *src.PublishedAt
		cloned.PublishedAt = &t
	}
	return &cloned
}
