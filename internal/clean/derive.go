package clean

import (
	"regexp"
	"strconv"
	"strings"

	"joblens-engine/internal/config"
	"joblens-engine/internal/dataset"
)

var (
	countryRe     = regexp.MustCompile(`,\s*(\w+)$`)
	cityRe        = regexp.MustCompile(`^([^,]+)`)
	companyDashRe = regexp.MustCompile(`\s*-\s*$`)
)

// Deriver computes the derived attributes of a cleaned record. Bad cells are
// never an error: a cell that fails its rule leaves the attribute absent and
// the record is kept.
type Deriver struct {
	seniorityRe *regexp.Regexp
	canonical   map[string]string
	skillsSep   string
	juniorBelow float64
	seniorFrom  float64
}

func New(cfg config.Config) *Deriver {
	kws := cfg.Derive.SeniorityKeywords
	quoted := make([]string, 0, len(kws))
	canonical := make(map[string]string, len(kws))
	for _, kw := range kws {
		quoted = append(quoted, regexp.QuoteMeta(kw))
		canonical[strings.ToLower(kw)] = kw
	}
	return &Deriver{
		seniorityRe: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
		canonical:   canonical,
		skillsSep:   cfg.Derive.SkillsSeparator,
		juniorBelow: cfg.Derive.JuniorBelowYears,
		seniorFrom:  cfg.Derive.SeniorFromYears,
	}
}

// Derive turns the raw table into the cleaned record set, then deduplicates
// on the link field (first occurrence wins, order preserved). Raw cells are
// kept verbatim apart from the location and company tidy-ups the source
// system applies before splitting.
func (d *Deriver) Derive(t dataset.Table, profile dataset.Profile) []dataset.Record {
	salaryIdx, hasSalary := t.Col(dataset.ColSalary)
	locIdx, hasLoc := t.Col(dataset.ColLocation)
	titleIdx, hasTitle := t.Col(dataset.ColTitle)
	companyIdx, hasCompany := t.Col(dataset.ColCompany)
	skillsIdx, hasSkills := t.Col(dataset.ColSkills)
	expIdx, hasExp := t.Col(dataset.ColExperience)
	workIdx, hasWork := t.Col(dataset.ColWorkType)
	cityIdx, hasCity := t.Col(dataset.ColCity)

	records := make([]dataset.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := dataset.Record{Raw: make(map[string]string, len(t.Columns))}
		for i, col := range t.Columns {
			rec.Raw[col] = row[i]
		}

		if hasCompany {
			name := companyDashRe.ReplaceAllString(row[companyIdx], "")
			rec.Raw[t.Columns[companyIdx]] = strings.TrimSpace(name)
		}

		if hasSalary {
			rec.SalaryUSD = parseSalary(row[salaryIdx])
		}

		if hasSkills {
			rec.Skills = d.splitSkills(row[skillsIdx])
		}

		if profile == dataset.ProfileListings && hasLoc {
			loc := row[locIdx]
			if hasSkills {
				// the skills export carries stray dashes in its location field
				loc = strings.TrimSpace(strings.ReplaceAll(loc, "-", ""))
				rec.Raw[t.Columns[locIdx]] = loc
			}
			rec.City, rec.Country = SplitLocation(loc)
		}
		if profile == dataset.ProfileWuzzuf && hasCity {
			if c := row[cityIdx]; c != "" {
				rec.City = &c
			}
		}

		if hasTitle {
			rec.Seniority = d.seniority(row[titleIdx])
		}

		if hasExp {
			if v, err := strconv.ParseFloat(strings.TrimSpace(row[expIdx]), 64); err == nil {
				rec.Experience = &v
				lvl := d.jobLevel(v)
				rec.JobLevel = &lvl
			}
		}

		if hasWork {
			if w := row[workIdx]; w != "" {
				rec.WorkType = &w
			}
		}

		records = append(records, rec)
	}

	return DedupByLink(records)
}

// SplitLocation applies the comma-boundary rule: city is the text before the
// first comma, country the trailing single-word token after the last comma.
// No comma means the whole string is the city and the country is absent.
func SplitLocation(loc string) (city, country *string) {
	if loc == "" {
		return nil, nil
	}
	if m := cityRe.FindStringSubmatch(loc); m != nil {
		city = &m[1]
	}
	if m := countryRe.FindStringSubmatch(loc); m != nil {
		country = &m[1]
	}
	return city, country
}

func (d *Deriver) seniority(title string) *string {
	m := d.seniorityRe.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	if canon, ok := d.canonical[strings.ToLower(m[1])]; ok {
		return &canon
	}
	return &m[1]
}

func (d *Deriver) jobLevel(years float64) string {
	switch {
	case years < d.juniorBelow:
		return "Junior"
	case years < d.seniorFrom:
		return "Mid-Level"
	default:
		return "Senior"
	}
}

func (d *Deriver) splitSkills(cell string) []string {
	if cell == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(cell, d.skillsSep) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseSalary strips the currency dressing and parses the rest; anything
// non-numeric is absent, not an error.
func parseSalary(cell string) *float64 {
	s := strings.ReplaceAll(cell, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
