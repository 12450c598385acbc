package filter

import "joblens-engine/internal/dataset"

// Selection is an inclusion constraint on one derived attribute. The zero
// value is unconstrained and passes every record, including those where the
// attribute is absent. A restricted selection only passes records whose
// attribute is present and in the set — so RestrictedTo with no values
// matches nothing, which is deliberately distinct from "no filter".
type Selection struct {
	restricted bool
	values     map[string]struct{}
}

func Any() Selection { return Selection{} }

func OneOf(values ...string) Selection {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return Selection{restricted: true, values: m}
}

func (s Selection) Restricted() bool { return s.restricted }

func (s Selection) allows(v *string) bool {
	if !s.restricted {
		return true
	}
	if v == nil {
		return false
	}
	_, ok := s.values[*v]
	return ok
}

// Range is an inclusive numeric bound. Min > Max matches nothing; that is a
// legal (if useless) query, not a validation failure.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) contains(v *float64) bool {
	return v != nil && *v >= r.Min && *v <= r.Max
}

// Spec is one dashboard query: every restricted dimension must match (AND).
// A nil Salary range leaves salary unfiltered; a non-nil one excludes every
// record whose salary failed to parse.
type Spec struct {
	Countries Selection
	Cities    Selection
	Seniority Selection
	JobLevels Selection
	WorkTypes Selection
	Salary    *Range
}

// Apply returns the matching subsequence in the record set's original order.
// It never mutates its input; each interaction re-filters the full set.
func Apply(records []dataset.Record, spec Spec) []dataset.Record {
	out := make([]dataset.Record, 0, len(records))
	for _, r := range records {
		if !spec.Countries.allows(r.Country) {
			continue
		}
		if !spec.Cities.allows(r.City) {
			continue
		}
		if !spec.Seniority.allows(r.Seniority) {
			continue
		}
		if !spec.JobLevels.allows(r.JobLevel) {
			continue
		}
		if !spec.WorkTypes.allows(r.WorkType) {
			continue
		}
		if spec.Salary != nil && !spec.Salary.contains(r.SalaryUSD) {
			continue
		}
		out = append(out, r)
	}
	return out
}
