package scheduler_test

import (
	"testing"

	"github.com/KnightCoder27/Skael/internal/model"
	"github.com/KnightCoder27/Skael/internal/scheduler"
)

// ── CriteriaFor ────────────────────────────────────────────────────────────

func TestCriteriaFor_FullProfile(t *testing.T) {
	role := "backend engineer"
	years := 5
	pref := model.RemotePreferenceRemote
	u := model.User{
		ID:                 1,
		DesiredJobRole:     &role,
		Experience:         &years,
		Skills:             []string{"go", "postgresql"},
		PreferredLocations: []string{"berlin"},
		RemotePreference:   &pref,
	}

	c := scheduler.CriteriaFor(u)

	if len(c.JobTitles) != 1 || c.JobTitles[0] != "backend engineer" {
		t.Errorf("JobTitles = %v, want the desired role", c.JobTitles)
	}
	if len(c.Skills) != 2 {
		t.Errorf("Skills = %v, want profile skills", c.Skills)
	}
	if c.Experience == nil || *c.Experience != 5 {
		t.Errorf("Experience = %v, want 5", c.Experience)
	}
	if len(c.Locations) != 1 || c.Locations[0] != "berlin" {
		t.Errorf("Locations = %v, want preferred locations", c.Locations)
	}
	if c.Remote == nil || !*c.Remote {
		t.Error("Remote should be set for a Remote preference")
	}
}

func TestCriteriaFor_NonRemotePreferencesLeaveFlagUnset(t *testing.T) {
	for _, pref := range []model.RemotePreference{
		model.RemotePreferenceHybrid,
		model.RemotePreferenceOnsite,
	} {
		u := model.User{RemotePreference: &pref}
		if c := scheduler.CriteriaFor(u); c.Remote != nil {
			t.Errorf("Remote = %v for %s preference, want nil", *c.Remote, pref)
		}
	}
}

func TestCriteriaFor_EmptyProfile(t *testing.T) {
	c := scheduler.CriteriaFor(model.User{})
	if len(c.JobTitles) != 0 || c.Experience != nil || c.Remote != nil {
		t.Errorf("empty profile should yield empty criteria, got %+v", c)
	}
}
