// internal/server/catalog.go
package server

import (
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/johnhkchen/hack-stack/internal/debug"
)

// RouteInfo is the human-facing description of a route pattern.
type RouteInfo struct {
	Name        string
	Description string
	Tags        []string
}

// Catalog remembers the registration order and description of each pattern
// so route discovery can report them.
type Catalog struct {
	mu    sync.RWMutex
	order []string
	info  map[string]RouteInfo
}

func NewCatalog() *Catalog {
	return &Catalog{info: make(map[string]RouteInfo)}
}

// Add records info for pattern. The first registration fixes the order; a
// later one only fills in a missing description.
func (c *Catalog) Add(pattern string, info RouteInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.info[pattern]
	if !ok {
		c.order = append(c.order, pattern)
		c.info[pattern] = info
		return
	}
	if existing.Name == "" {
		existing.Name = info.Name
	}
	if existing.Description == "" {
		existing.Description = info.Description
	}
	if len(existing.Tags) == 0 {
		existing.Tags = info.Tags
	}
	c.info[pattern] = existing
}

func (c *Catalog) lookup(pattern string) (RouteInfo, int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.info[pattern]
	if !ok {
		return RouteInfo{}, -1, false
	}
	for i, p := range c.order {
		if p == pattern {
			return info, i, true
		}
	}
	return info, -1, true
}

// catalogRouter registers handlers on a chi router and records them in a
// Catalog.
type catalogRouter struct {
	chi.Router
	catalog *Catalog
}

func (r catalogRouter) handle(method, pattern string, h http.HandlerFunc, info RouteInfo) {
	r.catalog.Add(pattern, info)
	r.Method(method, pattern, h)
}

// ==========================
// Discovery
// ==========================

// RouteTable reads the live chi route tree. It implements debug.RouteSource.
type RouteTable struct {
	routes  chi.Routes
	catalog *Catalog
}

func NewRouteTable(routes chi.Routes, catalog *Catalog) *RouteTable {
	return &RouteTable{routes: routes, catalog: catalog}
}

// ListRoutes groups methods by path. Catalogued patterns come first in
// registration order, the rest follow sorted by path. Wildcard mounts such as
// /static/* are not reported.
func (t *RouteTable) ListRoutes() []debug.RouteDescriptor {
	methods := map[string]map[string]struct{}{}
	_ = chi.Walk(t.routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		route = normalizePattern(route)
		if strings.HasSuffix(route, "/*") {
			return nil
		}
		if methods[route] == nil {
			methods[route] = map[string]struct{}{}
		}
		methods[route][strings.ToUpper(method)] = struct{}{}
		return nil
	})

	type ordered struct {
		desc  debug.RouteDescriptor
		index int
	}
	list := make([]ordered, 0, len(methods))
	for path, set := range methods {
		ms := make([]string, 0, len(set))
		for m := range set {
			ms = append(ms, m)
		}
		sort.Strings(ms)

		info, idx, ok := t.catalog.lookup(path)
		if !ok || info.Name == "" {
			info.Name = nameFromPath(path)
		}
		tags := info.Tags
		if tags == nil {
			tags = []string{}
		}
		list = append(list, ordered{
			desc: debug.RouteDescriptor{
				Path:        path,
				Methods:     ms,
				Name:        info.Name,
				Description: info.Description,
				Tags:        tags,
				Origin:      debug.OriginDiscovered,
			},
			index: idx,
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch {
		case a.index >= 0 && b.index >= 0:
			return a.index < b.index
		case a.index >= 0:
			return true
		case b.index >= 0:
			return false
		default:
			return a.desc.Path < b.desc.Path
		}
	})

	out := make([]debug.RouteDescriptor, len(list))
	for i, o := range list {
		out[i] = o.desc
	}
	return out
}

// normalizePattern drops the trailing slash chi.Walk reports for subrouter
// roots, keeping "/" itself.
func normalizePattern(p string) string {
	p = strings.ReplaceAll(p, "/*/", "/")
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// nameFromPath turns /api/v2/system/status into "System Status".
func nameFromPath(path string) string {
	var words []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "api" || (len(seg) == 2 && seg[0] == 'v' && seg[1] >= '0' && seg[1] <= '9') {
			continue
		}
		seg = strings.Trim(seg, "{}")
		for _, w := range strings.FieldsFunc(seg, func(r rune) bool { return r == '-' || r == '_' }) {
			words = append(words, strings.ToUpper(w[:1])+w[1:])
		}
	}
	if len(words) == 0 {
		return "Root"
	}
	return strings.Join(words, " ")
}
