package stats

import (
	"sort"
	"strings"

	"joblens-engine/internal/dataset"
)

// Summary is the plain numeric aggregate a dashboard metric row wants.
// Records with an absent value are skipped; Count is the number that
// actually contributed.
type Summary struct {
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Salary summarizes SalaryUSD over the record set. ok is false when no
// record carried a parseable salary — an empty filtered set produces no
// aggregate values, it is not an error.
func Salary(records []dataset.Record) (Summary, bool) {
	return summarize(records, func(r dataset.Record) *float64 { return r.SalaryUSD })
}

// Experience summarizes the experience-years field.
func Experience(records []dataset.Record) (Summary, bool) {
	return summarize(records, func(r dataset.Record) *float64 { return r.Experience })
}

func summarize(records []dataset.Record, get func(dataset.Record) *float64) (Summary, bool) {
	var s Summary
	for _, r := range records {
		v := get(r)
		if v == nil {
			continue
		}
		if s.Count == 0 || *v < s.Min {
			s.Min = *v
		}
		if s.Count == 0 || *v > s.Max {
			s.Max = *v
		}
		s.Mean += *v
		s.Count++
	}
	if s.Count == 0 {
		return Summary{}, false
	}
	s.Mean /= float64(s.Count)
	return s, true
}

// GroupSummary is one row of the salary-by-seniority table.
type GroupSummary struct {
	Group  string  `json:"group"`
	Salary Summary `json:"salary"`
}

// SalaryBySeniority groups salary summaries by seniority, sorted by mean
// descending. Records without a seniority keyword are left out entirely.
func SalaryBySeniority(records []dataset.Record) []GroupSummary {
	groups := make(map[string][]dataset.Record)
	order := []string{}
	for _, r := range records {
		if r.Seniority == nil {
			continue
		}
		if _, ok := groups[*r.Seniority]; !ok {
			order = append(order, *r.Seniority)
		}
		groups[*r.Seniority] = append(groups[*r.Seniority], r)
	}

	out := make([]GroupSummary, 0, len(order))
	for _, g := range order {
		if s, ok := Salary(groups[g]); ok {
			out = append(out, GroupSummary{Group: g, Salary: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Salary.Mean > out[j].Salary.Mean })
	return out
}

// CountItem is one bar of a value-count chart.
type CountItem struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TopCities returns the n most frequent cities, most frequent first.
func TopCities(records []dataset.Record, n int) []CountItem {
	counts := countBy(records, func(r dataset.Record) *string { return r.City })
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func CountBySeniority(records []dataset.Record) []CountItem {
	return countBy(records, func(r dataset.Record) *string { return r.Seniority })
}

func CountByJobLevel(records []dataset.Record) []CountItem {
	return countBy(records, func(r dataset.Record) *string { return r.JobLevel })
}

func CountByWorkType(records []dataset.Record) []CountItem {
	return countBy(records, func(r dataset.Record) *string { return r.WorkType })
}

func countBy(records []dataset.Record, get func(dataset.Record) *string) []CountItem {
	counts := make(map[string]int)
	order := []string{}
	for _, r := range records {
		v := get(r)
		if v == nil {
			continue
		}
		if counts[*v] == 0 {
			order = append(order, *v)
		}
		counts[*v]++
	}

	out := make([]CountItem, 0, len(order))
	for _, v := range order {
		out = append(out, CountItem{Value: v, Count: counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// SkillFrequencies counts skills across the record set for the word cloud.
// Lower-casing happens here, at aggregation, not in the cleaned records.
func SkillFrequencies(records []dataset.Record) []CountItem {
	counts := make(map[string]int)
	order := []string{}
	for _, r := range records {
		for _, s := range r.Skills {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			if counts[s] == 0 {
				order = append(order, s)
			}
			counts[s]++
		}
	}

	out := make([]CountItem, 0, len(order))
	for _, v := range order {
		out = append(out, CountItem{Value: v, Count: counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// HistogramBin covers [From, To); the last bin includes its upper bound.
type HistogramBin struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

// ExperienceHistogram buckets the experience-years values into bins equal
// slices of the observed range. Nil when there is nothing to bucket.
func ExperienceHistogram(records []dataset.Record, bins int) []HistogramBin {
	s, ok := Experience(records)
	if !ok || bins <= 0 {
		return nil
	}

	width := (s.Max - s.Min) / float64(bins)
	if width == 0 {
		// all values identical: one bin holding everything
		return []HistogramBin{{From: s.Min, To: s.Max, Count: s.Count}}
	}

	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].From = s.Min + float64(i)*width
		out[i].To = s.Min + float64(i+1)*width
	}
	for _, r := range records {
		if r.Experience == nil {
			continue
		}
		idx := int((*r.Experience - s.Min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}
