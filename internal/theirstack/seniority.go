package theirstack

// Seniority tier values accepted by the jobs/search endpoint.
const (
	SeniorityJunior   = "junior"
	SeniorityMidLevel = "mid_level"
	SenioritySenior   = "senior"
	SeniorityStaff    = "staff"
	SeniorityCLevel   = "c_level"
)

// MapExperienceToSeniority derives the seniority-tier filter from years of
// experience. A nil experience means no tier filter at all (empty slice).
// The bands straddle the breakpoints so a search near a boundary still sees
// both adjacent tiers.
func MapExperienceToSeniority(years *int) []string {
	if years == nil {
		return nil
	}
	switch y := *years; {
	case y < 1:
		return []string{SeniorityJunior}
	case y < 3:
		return []string{SeniorityJunior, SeniorityMidLevel}
	case y < 7:
		return []string{SeniorityMidLevel, SenioritySenior}
	case y < 10:
		return []string{SenioritySenior, SeniorityStaff}
	default:
		return []string{SenioritySenior, SeniorityStaff, SeniorityCLevel}
	}
}
