// Package http exposes the public portfolio JSON API.
//
// Routes mount under /api:
//   - Posts: /posts, /posts/{slug}
//   - Case studies: /case-studies, /case-studies/{slug}
//   - Testimonials: /testimonials
//   - Contact form: POST /contact
//   - Markdown preview: POST /markdown/preview
//
// /healthz and /metrics are registered at the root. Host applications can
// mount the API on their own mux with Register.
package http
