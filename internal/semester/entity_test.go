// AngelaMos | 2026
// entity_test.go

package semester

import (
	"testing"
)

func TestSeasonNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		current  Season
		next     Season
		rollover bool
	}{
		{SeasonSpring, SeasonSummer, false},
		{SeasonSummer, SeasonFall, false},
		{SeasonFall, SeasonSpring, true},
	}

	for _, tt := range tests {
		next, rollover := tt.current.Next()
		if next != tt.next {
			t.Errorf("%s.Next() = %s, want %s", tt.current, next, tt.next)
		}
		if rollover != tt.rollover {
			t.Errorf("%s.Next() rollover = %v, want %v",
				tt.current, rollover, tt.rollover)
		}
	}
}

func TestSeasonValid(t *testing.T) {
	t.Parallel()

	for _, season := range []Season{SeasonSpring, SeasonSummer, SeasonFall} {
		if !season.Valid() {
			t.Errorf("%s should be valid", season)
		}
	}
	if Season("winter").Valid() {
		t.Error("winter is not an academic season here")
	}
}

func TestSemesterLabel(t *testing.T) {
	t.Parallel()

	s := &Semester{Season: SeasonFall, Year: 2026}
	if label := s.Label(); label != "fall 2026" {
		t.Errorf("label = %q, want %q", label, "fall 2026")
	}
}
