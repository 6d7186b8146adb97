// internal/debug/readiness.go
package debug

const (
	DefaultCriterionWeight = 10
	ReadyThreshold         = 75

	MessageReady      = "Demo ready!"
	MessageNotReady   = "Issues detected"
	MessageNoCriteria = "No criteria configured"
)

// Known readiness checks.
const (
	CheckServicesHealthy = "services_healthy"
	CheckAPIResponsive   = "api_responsive"
	CheckFrontendHealthy = "frontend_healthy"
	CheckVendorAvailable = "vendor_available"
)

type Criterion struct {
	Check  string `yaml:"check" json:"check"`
	Name   string `yaml:"name" json:"name"`
	Weight *int   `yaml:"weight" json:"weight,omitempty"`
}

func (c Criterion) weight() int {
	if c.Weight == nil {
		return DefaultCriterionWeight
	}
	if *c.Weight < 0 {
		return 0
	}
	return *c.Weight
}

func (c Criterion) label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Check
}

type CriterionResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Weight int    `json:"weight"`
}

type Readiness struct {
	Score   int               `json:"score"`
	Ready   bool              `json:"ready"`
	Message string            `json:"message"`
	Checks  []CriterionResult `json:"checks"`
}

// CheckResolver reports whether a named check passes. Unknown names must
// resolve to false.
type CheckResolver func(check string) bool

// Checks is a CheckResolver backed by a fixed map.
type Checks map[string]bool

func (c Checks) Resolve(check string) bool { return c[check] }

// Score evaluates criteria in order. The score is the truncated percentage of
// passed weight; no weight at all counts as ready.
func Score(criteria []Criterion, resolve CheckResolver) Readiness {
	out := Readiness{Checks: make([]CriterionResult, 0, len(criteria))}

	total, passed := 0, 0
	for _, c := range criteria {
		w := c.weight()
		ok := resolve != nil && resolve(c.Check)
		total += w
		if ok {
			passed += w
		}
		out.Checks = append(out.Checks, CriterionResult{Name: c.label(), Passed: ok, Weight: w})
	}

	if total == 0 {
		out.Score = 100
		out.Ready = true
		out.Message = MessageNoCriteria
		return out
	}

	out.Score = passed * 100 / total
	out.Ready = out.Score >= ReadyThreshold
	if out.Ready {
		out.Message = MessageReady
	} else {
		out.Message = MessageNotReady
	}
	return out
}
