package dataset

// Canonical column names used by the ingestion profiles. Matching against
// uploaded headers is case-insensitive after trimming; Raw keeps whatever
// casing the file used.
const (
	ColSalary     = "Salary (USD)"
	ColLocation   = "Location"
	ColTitle      = "Job Title"
	ColCompany    = "Company Name"
	ColLink       = "Link"
	ColSkills     = "Skills"
	ColExperience = "Experience (Yrs)"
	ColWorkType   = "Work Type"
	ColCity       = "City"
	ColJobLevel   = "Job Level"
)

// Record is one job listing. Raw holds the source cells keyed by the file's
// own (trimmed) column names; the document export preserves these verbatim.
// Derived attributes use nil for "absent" — an absent attribute never matches
// a restricted filter and is skipped by numeric aggregates.
type Record struct {
	Raw map[string]string `json:"raw"`

	SalaryUSD  *float64 `json:"salaryUSD,omitempty"`
	Country    *string  `json:"country,omitempty"`
	City       *string  `json:"city,omitempty"`
	Seniority  *string  `json:"seniority,omitempty"`
	JobLevel   *string  `json:"jobLevel,omitempty"`
	WorkType   *string  `json:"workType,omitempty"`
	Experience *float64 `json:"experience,omitempty"`
	Skills     []string `json:"skills,omitempty"`
}

// Link returns the record's identifying URL, or "" when the upload had none.
func (r Record) Link() string {
	for k, v := range r.Raw {
		if EqualCol(k, ColLink) {
			return v
		}
	}
	return ""
}
