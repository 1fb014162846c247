package theirstack_test

import (
	"testing"

	"github.com/KnightCoder27/Skael/internal/theirstack"
)

// ── MapExperienceToSeniority ───────────────────────────────────────────────

func TestMapExperienceToSeniority_NilExperience(t *testing.T) {
	if got := theirstack.MapExperienceToSeniority(nil); len(got) != 0 {
		t.Errorf("MapExperienceToSeniority(nil) = %v, want empty", got)
	}
}

func TestMapExperienceToSeniority_Bands(t *testing.T) {
	cases := []struct {
		years int
		want  []string
	}{
		{0, []string{"junior"}},
		{1, []string{"junior", "mid_level"}},
		{2, []string{"junior", "mid_level"}},
		{3, []string{"mid_level", "senior"}},
		{6, []string{"mid_level", "senior"}},
		{7, []string{"senior", "staff"}},
		{9, []string{"senior", "staff"}},
		{10, []string{"senior", "staff", "c_level"}},
		{25, []string{"senior", "staff", "c_level"}},
	}
	for _, c := range cases {
		got := theirstack.MapExperienceToSeniority(&c.years)
		if len(got) != len(c.want) {
			t.Errorf("MapExperienceToSeniority(%d) = %v, want %v", c.years, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("MapExperienceToSeniority(%d)[%d] = %q, want %q", c.years, i, got[i], c.want[i])
			}
		}
	}
}
