// internal/debug/reconcile.go
package debug

import (
	"bytes"
	"encoding/json"
	"strings"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// UntrackedSection is reserved for discovered routes no section claims.
const UntrackedSection = "untracked"

type MergedEndpoint struct {
	Path           string      `json:"path"`
	DisplayPath    string      `json:"display_path,omitempty"`
	Method         string      `json:"method"`
	Methods        []string    `json:"methods,omitempty"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Tags           []string    `json:"tags,omitempty"`
	Priority       Priority    `json:"priority"`
	RequestBody    interface{} `json:"request_body,omitempty"`
	Configured     bool        `json:"configured"`
	AutoDiscovered bool        `json:"auto_discovered"`
}

type Section struct {
	Key         string           `json:"key"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Expanded    bool             `json:"expanded"`
	IsPrimary   bool             `json:"is_primary"`
	Endpoints   []MergedEndpoint `json:"endpoints"`
}

// Sections encodes as a JSON object keyed by section key, in slice order.
type Sections []Section

func (s Sections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sec := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sec.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(sec)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the section with key.
func (s Sections) Get(key string) (Section, bool) {
	for _, sec := range s {
		if sec.Key == key {
			return sec, true
		}
	}
	return Section{}, false
}

type EndpointSummary struct {
	Total      int `json:"total"`
	Configured int `json:"configured"`
	Untracked  int `json:"untracked"`
}

type EndpointsView struct {
	Sections       Sections        `json:"sections"`
	PrimarySection string          `json:"primary_section"`
	Summary        EndpointSummary `json:"summary"`
}

type ReconcileOptions struct {
	// StrictMethods reports each unmatched method of a route separately
	// instead of treating the route as claimed once any method matched.
	StrictMethods bool
}

// Reconcile merges live routes with the configured sections. It never fails:
// configured endpoints with no live route become placeholders and live routes
// no section claims land in the untracked section.
func Reconcile(routes []RouteDescriptor, cfg EndpointsConfig, opts ReconcileOptions) EndpointsView {
	strict := opts.StrictMethods || cfg.StrictMethods
	assigned := make(map[string]bool)

	primary := cfg.PrimarySection
	view := EndpointsView{Sections: Sections{}}
	seen := make(map[string]bool)

	for _, sc := range cfg.Sections {
		if sc.Key == UntrackedSection || seen[sc.Key] {
			continue
		}
		seen[sc.Key] = true
		if primary == "" {
			primary = sc.Key
		}

		sec := Section{
			Key:         sc.Key,
			Name:        sc.Name,
			Description: sc.Description,
			Expanded:    sc.Expanded,
			Endpoints:   make([]MergedEndpoint, 0, len(sc.Endpoints)),
		}
		for _, ep := range sc.Endpoints {
			sec.Endpoints = append(sec.Endpoints, mergeEndpoint(ep, routes, assigned))
		}
		view.Sections = append(view.Sections, sec)
	}

	for i := range view.Sections {
		view.Sections[i].IsPrimary = view.Sections[i].Key == primary
	}
	view.PrimarySection = primary

	untracked := untrackedEndpoints(routes, assigned, strict)
	if len(untracked) > 0 {
		view.Sections = append(view.Sections, Section{
			Key:         UntrackedSection,
			Name:        "Untracked Endpoints",
			Description: "Discovered routes that no configured section lists",
			Endpoints:   untracked,
		})
	}

	for _, sec := range view.Sections {
		for _, ep := range sec.Endpoints {
			view.Summary.Total++
			if ep.Configured {
				view.Summary.Configured++
			}
		}
	}
	view.Summary.Untracked = len(untracked)

	return view
}

func mergeEndpoint(ep EndpointConfig, routes []RouteDescriptor, assigned map[string]bool) MergedEndpoint {
	method := strings.ToUpper(strings.TrimSpace(ep.Method))
	if method == "" {
		method = "GET"
	}
	priority := normalizePriority(ep.Priority)

	merged := MergedEndpoint{
		Path:        ep.Path,
		DisplayPath: ep.DisplayPath,
		Method:      method,
		Name:        ep.Name,
		Description: ep.Description,
		Priority:    priority,
		RequestBody: ep.RequestBody,
		Configured:  true,
	}

	route, ok := findRoute(routes, ep.Path, method)
	if !ok && ep.DisplayPath != "" {
		route, ok = findRoute(routes, ep.DisplayPath, method)
	}
	if !ok {
		return merged
	}

	assigned[assignKey(route.Path, method)] = true
	merged.AutoDiscovered = true
	merged.Methods = append([]string(nil), route.Methods...)
	merged.Tags = append([]string(nil), route.Tags...)
	if merged.Name == "" {
		merged.Name = route.Name
	}
	if merged.Description == "" {
		merged.Description = route.Description
	}
	return merged
}

// findRoute returns the first route serving method on path. Several
// configured endpoints may resolve to the same route.
func findRoute(routes []RouteDescriptor, path, method string) (RouteDescriptor, bool) {
	for _, r := range routes {
		if r.Path == path && r.hasMethod(method) {
			return r, true
		}
	}
	return RouteDescriptor{}, false
}

// normalizePriority maps anything outside high/medium/low to medium.
func normalizePriority(p Priority) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(string(p)))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

func untrackedEndpoints(routes []RouteDescriptor, assigned map[string]bool, strict bool) []MergedEndpoint {
	var out []MergedEndpoint
	for _, r := range routes {
		if len(r.Methods) == 0 {
			continue
		}
		if strict {
			for _, m := range r.Methods {
				if !assigned[assignKey(r.Path, m)] {
					out = append(out, untrackedEntry(r, m))
				}
			}
			continue
		}

		claimed := false
		for _, m := range r.Methods {
			if assigned[assignKey(r.Path, m)] {
				claimed = true
				break
			}
		}
		if !claimed {
			out = append(out, untrackedEntry(r, r.Methods[0]))
		}
	}
	return out
}

func untrackedEntry(r RouteDescriptor, method string) MergedEndpoint {
	return MergedEndpoint{
		Path:           r.Path,
		Method:         method,
		Methods:        append([]string(nil), r.Methods...),
		Name:           r.Name,
		Description:    r.Description,
		Tags:           append([]string(nil), r.Tags...),
		Priority:       PriorityMedium,
		AutoDiscovered: true,
	}
}

func assignKey(path, method string) string {
	return method + " " + path
}
