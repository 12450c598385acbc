package clean

import (
	"testing"

	"joblens-engine/internal/config"
	"joblens-engine/internal/dataset"
)

func testDeriver(t *testing.T) *Deriver {
	t.Helper()
	cfg, _ := config.NormalizeAndValidate(config.Config{})
	return New(cfg)
}

func listingsTable(rows ...[]string) dataset.Table {
	return dataset.Table{
		Columns: []string{
			dataset.ColSalary, dataset.ColLocation, dataset.ColTitle,
			dataset.ColCompany, dataset.ColLink, dataset.ColSkills,
		},
		Rows: rows,
	}
}

func wuzzufTable(rows ...[]string) dataset.Table {
	return dataset.Table{
		Columns: []string{dataset.ColTitle, dataset.ColCity, dataset.ColExperience, dataset.ColWorkType},
		Rows:    rows,
	}
}

func TestDeriveSalary(t *testing.T) {
	d := testDeriver(t)
	cases := []struct {
		in   string
		want *float64
	}{
		{"$1,200", fp(1200)},
		{"$85,000.50", fp(85000.50)},
		{"900", fp(900)},
		{"N/A", nil},
		{"", nil},
		{"$", nil},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			recs := d.Derive(listingsTable(
				[]string{tc.in, "Cairo, Egypt", "Dev", "Acme", "https://x/1", ""},
			), dataset.ProfileListings)
			got := recs[0].SalaryUSD
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("SalaryUSD = %v, want %v", got, tc.want)
			}
			if got != nil && *got != *tc.want {
				t.Errorf("SalaryUSD = %v, want %v", *got, *tc.want)
			}
		})
	}
}

func TestSplitLocation(t *testing.T) {
	cases := []struct {
		loc           string
		city, country string // "" means absent
	}{
		{"Cairo, Egypt", "Cairo", "Egypt"},
		{"Remote", "Remote", ""},
		{"New York, USA", "New York", "USA"},
		{"Giza, North Coast", "Giza", ""}, // trailing token is not a single word
		{"", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.loc, func(t *testing.T) {
			city, country := SplitLocation(tc.loc)
			if got := deref(city); got != tc.city {
				t.Errorf("city = %q, want %q", got, tc.city)
			}
			if got := deref(country); got != tc.country {
				t.Errorf("country = %q, want %q", got, tc.country)
			}
		})
	}
}

func TestSplitLocationIdempotentWithoutComma(t *testing.T) {
	city, country := SplitLocation("Remote")
	if country != nil {
		t.Fatalf("country = %q, want absent", *country)
	}
	again, country2 := SplitLocation(*city)
	if deref(again) != "Remote" || country2 != nil {
		t.Errorf("re-derive changed split: city=%q country=%v", deref(again), country2)
	}
}

func TestDeriveSeniority(t *testing.T) {
	d := testDeriver(t)
	cases := []struct {
		title string
		want  string // "" means absent
	}{
		{"Senior Backend Engineer", "Senior"},
		{"Backend Engineer", ""},
		{"SENIOR architect", "Senior"}, // canonical casing regardless of input
		{"Engineering Internship", ""}, // whole word only
		{"Junior to Senior Developer", "Junior"}, // leftmost wins
		{"Team Lead", "Lead"},
		{"Product Manager", "Manager"},
	}
	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			recs := d.Derive(listingsTable(
				[]string{"100", "Cairo, Egypt", tc.title, "Acme", "https://x/1", ""},
			), dataset.ProfileListings)
			if got := deref(recs[0].Seniority); got != tc.want {
				t.Errorf("Seniority = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDeriveSkills(t *testing.T) {
	d := testDeriver(t)
	recs := d.Derive(listingsTable(
		[]string{"100", "Cairo, Egypt", "Dev", "Acme", "https://x/1", " Go · SQL ·  Docker "},
	), dataset.ProfileListings)

	want := []string{"Go", "SQL", "Docker"}
	got := recs[0].Skills
	if len(got) != len(want) {
		t.Fatalf("Skills = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Skills[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDeriveCompanyTrailingDashTrim(t *testing.T) {
	d := testDeriver(t)
	recs := d.Derive(listingsTable(
		[]string{"100", "Cairo, Egypt", "Dev", "Acme Corp - ", "https://x/1", ""},
	), dataset.ProfileListings)
	if got := recs[0].Raw[dataset.ColCompany]; got != "Acme Corp" {
		t.Errorf("company = %q, want %q", got, "Acme Corp")
	}
}

func TestDeriveJobLevelBands(t *testing.T) {
	d := testDeriver(t)
	cases := []struct {
		years string
		want  string
	}{
		{"0", "Junior"},
		{"1.5", "Junior"},
		{"2", "Mid-Level"},
		{"4.9", "Mid-Level"},
		{"5", "Senior"},
		{"12", "Senior"},
		{"", ""},
		{"unknown", ""},
	}
	for _, tc := range cases {
		t.Run(tc.years, func(t *testing.T) {
			recs := d.Derive(wuzzufTable(
				[]string{"Dev", "Cairo", tc.years, "Full-Time"},
			), dataset.ProfileWuzzuf)
			if got := deref(recs[0].JobLevel); got != tc.want {
				t.Errorf("JobLevel = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDeriveWuzzufUsesPrecomputedCity(t *testing.T) {
	d := testDeriver(t)
	recs := d.Derive(wuzzufTable(
		[]string{"Dev", "Alexandria", "3", "Remote"},
	), dataset.ProfileWuzzuf)

	r := recs[0]
	if deref(r.City) != "Alexandria" {
		t.Errorf("City = %q, want Alexandria", deref(r.City))
	}
	if r.Country != nil {
		t.Errorf("Country = %q, want absent", *r.Country)
	}
	if deref(r.WorkType) != "Remote" {
		t.Errorf("WorkType = %q, want Remote", deref(r.WorkType))
	}
}

func TestDeriveDedupsOnLink(t *testing.T) {
	d := testDeriver(t)
	recs := d.Derive(listingsTable(
		[]string{"100", "Cairo, Egypt", "Dev", "Acme", "https://x/1", ""},
		[]string{"100", "CAIRO, Egypt", "Dev", "Acme", "https://x/1", ""},
		[]string{"100", "Giza, Egypt", "Dev", "Beta", "https://x/2", ""},
		[]string{"100", "Luxor, Egypt", "Dev", "Gamma", "", ""},
		[]string{"100", "Aswan, Egypt", "Dev", "Delta", "", ""},
	), dataset.ProfileListings)

	// same link collapses, empty links never collapse into each other
	if len(recs) != 4 {
		t.Fatalf("records = %d, want 4", len(recs))
	}
	if deref(recs[0].City) != "Cairo" {
		t.Errorf("first occurrence should win, got city %q", deref(recs[0].City))
	}
}

func TestDeriveLocationDashStripWithSkillsColumn(t *testing.T) {
	d := testDeriver(t)
	recs := d.Derive(listingsTable(
		[]string{"100", "Cairo-, Egypt", "Dev", "Acme", "https://x/1", "Go"},
	), dataset.ProfileListings)

	if got := recs[0].Raw[dataset.ColLocation]; got != "Cairo, Egypt" {
		t.Errorf("location = %q, want %q", got, "Cairo, Egypt")
	}
	if deref(recs[0].City) != "Cairo" {
		t.Errorf("City = %q, want Cairo", deref(recs[0].City))
	}
}

func fp(v float64) *float64 { return &v }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
