package filter

import "joblens-engine/internal/dataset"

// Options is what the UI needs to populate its selection widgets: the
// distinct observed values per filterable attribute in first-seen order,
// plus the observed salary bounds. Bounds are nil when no record carried a
// parseable salary.
type Options struct {
	Countries []string `json:"countries"`
	Cities    []string `json:"cities"`
	Seniority []string `json:"seniority"`
	JobLevels []string `json:"jobLevels"`
	WorkTypes []string `json:"workTypes"`
	SalaryMin *float64 `json:"salaryMin"`
	SalaryMax *float64 `json:"salaryMax"`
}

func OptionsFor(records []dataset.Record) Options {
	var opts Options
	opts.Countries = distinct(records, func(r dataset.Record) *string { return r.Country })
	opts.Cities = distinct(records, func(r dataset.Record) *string { return r.City })
	opts.Seniority = distinct(records, func(r dataset.Record) *string { return r.Seniority })
	opts.JobLevels = distinct(records, func(r dataset.Record) *string { return r.JobLevel })
	opts.WorkTypes = distinct(records, func(r dataset.Record) *string { return r.WorkType })

	for _, r := range records {
		if r.SalaryUSD == nil {
			continue
		}
		v := *r.SalaryUSD
		if opts.SalaryMin == nil || v < *opts.SalaryMin {
			min := v
			opts.SalaryMin = &min
		}
		if opts.SalaryMax == nil || v > *opts.SalaryMax {
			max := v
			opts.SalaryMax = &max
		}
	}
	return opts
}

func distinct(records []dataset.Record, get func(dataset.Record) *string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range records {
		v := get(r)
		if v == nil || seen[*v] {
			continue
		}
		seen[*v] = true
		out = append(out, *v)
	}
	return out
}
