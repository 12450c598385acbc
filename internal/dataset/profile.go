package dataset

import "fmt"

// Profile selects which ingestion shape an upload follows.
//
// ProfileListings is the scraped-listings export: location, salary and title
// are raw text and the engine derives City/Country/Seniority from them.
// ProfileWuzzuf is the pre-cleaned Wuzzuf export where City and Work Type are
// already columns and Job Level comes from the experience-years field.
type Profile string

const (
	ProfileListings Profile = "listings"
	ProfileWuzzuf   Profile = "wuzzuf"
)

// Required returns the columns that must survive the all-empty drop for the
// profile to ingest at all.
func (p Profile) Required() []string {
	switch p {
	case ProfileWuzzuf:
		return []string{ColTitle, ColCity, ColExperience, ColWorkType}
	default:
		return []string{ColSalary, ColLocation, ColTitle, ColCompany, ColLink}
	}
}

func ParseProfile(s string) (Profile, error) {
	switch s {
	case "", string(ProfileListings):
		return ProfileListings, nil
	case string(ProfileWuzzuf):
		return ProfileWuzzuf, nil
	}
	return "", fmt.Errorf("unknown ingestion profile %q", s)
}
