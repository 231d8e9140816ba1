// Package markdown turns authored Markdown into HTML fragments for posts and
// case studies. The built-in Converter handles the site's Markdown dialect in
// one scanning pass; GoldmarkParser is the CommonMark alternative. Loader and
// Service add front matter parsing and filesystem discovery on top.
package markdown
