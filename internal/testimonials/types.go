package testimonials

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Testimonial is a client quote shown on the public site.
type Testimonial struct {
	bun.BaseModel `bun:"table:testimonials,alias:t"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Author    string    `bun:"author,notnull" json:"author"`
	Role      string    `bun:"role" json:"role,omitempty"`
	Company   string    `bun:"company" json:"company,omitempty"`
	Quote     string    `bun:"quote,notnull" json:"quote"`
	Rating    int       `bun:"rating,notnull,default:5" json:"rating"`
	Featured  bool      `bun:"featured,notnull,default:false" json:"featured"`
	Position  int       `bun:"position,notnull,default:0" json:"position"`
	Published bool      `bun:"published,notnull,default:true" json:"-"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
