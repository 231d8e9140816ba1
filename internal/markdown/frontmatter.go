package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// ParseFrontMatter splits source into its YAML or TOML front matter and the
// Markdown body. Sources without front matter return an empty FrontMatter
// and the full body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta.toFrontMatter(), body, nil
}

// BuildDocument assembles a Document from a file's path, bytes and mtime.
// BodyHTML stays empty; rendering is left to the caller.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}
	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title   string         `yaml:"title" toml:"title"`
	Slug    string         `yaml:"slug" toml:"slug"`
	Summary string         `yaml:"summary" toml:"summary"`
	Status  string         `yaml:"status" toml:"status"`
	Tags    []string       `yaml:"tags" toml:"tags"`
	Author  string         `yaml:"author" toml:"author"`
	Date    time.Time      `yaml:"date" toml:"date"`
	Draft   bool           `yaml:"draft" toml:"draft"`
	Custom  map[string]any `yaml:",inline"`
}

func (env frontMatterEnvelope) toFrontMatter() interfaces.FrontMatter {
	custom := maps.Clone(env.Custom)
	if custom == nil {
		custom = map[string]any{}
	}

	raw := maps.Clone(custom)
	set := func(key string, value any, present bool) {
		if present {
			raw[key] = value
		}
	}
	set("title", env.Title, env.Title != "")
	set("slug", env.Slug, env.Slug != "")
	set("summary", env.Summary, env.Summary != "")
	set("status", env.Status, env.Status != "")
	set("tags", append([]string(nil), env.Tags...), len(env.Tags) > 0)
	set("author", env.Author, env.Author != "")
	set("date", env.Date, !env.Date.IsZero())
	raw["draft"] = env.Draft

	return interfaces.FrontMatter{
		Title:   env.Title,
		Slug:    env.Slug,
		Summary: env.Summary,
		Status:  env.Status,
		Tags:    append([]string(nil), env.Tags...),
		Author:  env.Author,
		Date:    env.Date,
		Draft:   env.Draft,
		Custom:  custom,
		Raw:     raw,
	}
}
