package filter

import (
	"testing"

	"joblens-engine/internal/dataset"
)

func rec(city, country, seniority string, salary *float64) dataset.Record {
	r := dataset.Record{Raw: map[string]string{}, SalaryUSD: salary}
	if city != "" {
		r.City = &city
	}
	if country != "" {
		r.Country = &country
	}
	if seniority != "" {
		r.Seniority = &seniority
	}
	return r
}

func fp(v float64) *float64 { return &v }

func testRecords() []dataset.Record {
	return []dataset.Record{
		rec("Cairo", "Egypt", "Senior", fp(3000)),
		rec("Giza", "Egypt", "Junior", fp(1000)),
		rec("Berlin", "Germany", "", fp(5000)),
		rec("Remote", "", "Lead", nil), // no country, unparseable salary
	}
}

func TestApplyUnconstrainedReturnsAllInOrder(t *testing.T) {
	recs := testRecords()
	got := Apply(recs, Spec{})
	if len(got) != len(recs) {
		t.Fatalf("matched %d, want %d", len(got), len(recs))
	}
	for i := range recs {
		if deref(got[i].City) != deref(recs[i].City) {
			t.Errorf("order changed at %d: %q != %q", i, deref(got[i].City), deref(recs[i].City))
		}
	}
}

func TestApplyFullRangeStillExcludesAbsentSalary(t *testing.T) {
	got := Apply(testRecords(), Spec{Salary: &Range{Min: 1000, Max: 5000}})
	if len(got) != 3 {
		t.Fatalf("matched %d, want 3 (absent salary never matches a range)", len(got))
	}
	for _, r := range got {
		if r.SalaryUSD == nil {
			t.Errorf("record with absent salary matched range filter")
		}
	}
}

func TestApplyInvertedRangeMatchesNothing(t *testing.T) {
	got := Apply(testRecords(), Spec{Salary: &Range{Min: 5000, Max: 1000}})
	if len(got) != 0 {
		t.Fatalf("matched %d, want 0", len(got))
	}
}

func TestApplyAbsentNeverMatchesRestricted(t *testing.T) {
	// The Remote record has no country; restricting countries must drop it
	// even though the restriction names everything else.
	got := Apply(testRecords(), Spec{Countries: OneOf("Egypt", "Germany")})
	if len(got) != 3 {
		t.Fatalf("matched %d, want 3", len(got))
	}
	for _, r := range got {
		if r.Country == nil {
			t.Errorf("absent country matched a restricted selection")
		}
	}
}

func TestApplyRestrictedToNothingMatchesNothing(t *testing.T) {
	got := Apply(testRecords(), Spec{Cities: OneOf()})
	if len(got) != 0 {
		t.Fatalf("matched %d, want 0 (explicit empty restriction)", len(got))
	}
}

func TestApplyAllDimensionsAnd(t *testing.T) {
	got := Apply(testRecords(), Spec{
		Countries: OneOf("Egypt"),
		Seniority: OneOf("Senior"),
		Salary:    &Range{Min: 2000, Max: 4000},
	})
	if len(got) != 1 || deref(got[0].City) != "Cairo" {
		t.Fatalf("got %d records, want just Cairo", len(got))
	}
}

func TestApplySalaryBoundsInclusive(t *testing.T) {
	got := Apply(testRecords(), Spec{Salary: &Range{Min: 1000, Max: 3000}})
	if len(got) != 2 {
		t.Fatalf("matched %d, want 2 (bounds are inclusive)", len(got))
	}
}

func TestOptionsForDistinctAndBounds(t *testing.T) {
	opts := OptionsFor(testRecords())

	wantCities := []string{"Cairo", "Giza", "Berlin", "Remote"}
	if len(opts.Cities) != len(wantCities) {
		t.Fatalf("cities = %v, want %v", opts.Cities, wantCities)
	}
	for i := range wantCities {
		if opts.Cities[i] != wantCities[i] {
			t.Errorf("cities[%d] = %q, want %q (first-seen order)", i, opts.Cities[i], wantCities[i])
		}
	}

	wantCountries := []string{"Egypt", "Germany"}
	if len(opts.Countries) != len(wantCountries) {
		t.Fatalf("countries = %v, want %v", opts.Countries, wantCountries)
	}

	if opts.SalaryMin == nil || *opts.SalaryMin != 1000 {
		t.Errorf("salaryMin = %v, want 1000", opts.SalaryMin)
	}
	if opts.SalaryMax == nil || *opts.SalaryMax != 5000 {
		t.Errorf("salaryMax = %v, want 5000", opts.SalaryMax)
	}
}

func TestOptionsForNoSalaries(t *testing.T) {
	opts := OptionsFor([]dataset.Record{rec("Cairo", "Egypt", "", nil)})
	if opts.SalaryMin != nil || opts.SalaryMax != nil {
		t.Errorf("salary bounds should be absent, got %v..%v", opts.SalaryMin, opts.SalaryMax)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
