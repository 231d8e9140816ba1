package links

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const (
	RoutePost      = "post"
	RouteCaseStudy = "case_study"

	DefaultGroup = "site"
)

var ErrRouteNotFound = errors.New("links: route not found")

// Config describes the public route group.
type Config struct {
	BaseURL string
	Group   string
	Paths   map[string]string
}

// DefaultPaths are the public page routes.
func DefaultPaths() map[string]string {
	return map[string]string{
		RoutePost:      "/blog/:slug",
		RouteCaseStudy: "/case-studies/:slug",
	}
}

// Resolver builds canonical URLs with a go-urlkit RouteManager.
type Resolver struct {
	manager *urlkit.RouteManager
	group   string
	routes  map[string]struct{}

	mu     sync.RWMutex
	cached *urlkit.Group
}

var _ interfaces.LinkResolver = (*Resolver)(nil)

// NewResolver returns nil when no base URL is configured; a nil Resolver
// resolves every route to the empty string.
func NewResolver(cfg Config) *Resolver {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil
	}
	group := strings.TrimSpace(cfg.Group)
	if group == "" {
		group = DefaultGroup
	}
	paths := cfg.Paths
	if len(paths) == 0 {
		paths = DefaultPaths()
	}

	routes := make(map[string]struct{}, len(paths))
	for name := range paths {
		routes[name] = struct{}{}
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    group,
				BaseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
				Paths:   paths,
			},
		},
	})
	return &Resolver{manager: manager, group: group, routes: routes}
}

// Resolve builds the URL for route with params substituted.
func (r *Resolver) Resolve(route string, params map[string]string) (string, error) {
	if r == nil || r.manager == nil {
		return "", nil
	}
	if _, ok := r.routes[route]; !ok {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, route)
	}

	group, err := r.lookupGroup()
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		builder.WithParam(key, params[key])
	}
	return builder.Build()
}

// Routes lists the configured route names.
func (r *Resolver) Routes() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.routes))
	for name := range r.routes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Resolver) lookupGroup() (group *urlkit.Group, err error) {
	r.mu.RLock()
	cached := r.cached
	r.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("links: route group %q not found", r.group)
		}
	}()
	group = r.manager.Group(r.group)

	r.mu.Lock()
	r.cached = group
	r.mu.Unlock()
	return group, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder, err = nil, fmt.Errorf("%w: %s", ErrRouteNotFound, route)
		}
	}()
	return group.Builder(route), nil
}
