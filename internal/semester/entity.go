// AngelaMos | 2026
// entity.go

package semester

import (
	"fmt"
	"time"
)

type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
)

func (s Season) Valid() bool {
	switch s {
	case SeasonSpring, SeasonSummer, SeasonFall:
		return true
	}
	return false
}

// Next returns the season that follows in the academic cycle and
// whether the year rolls over.
func (s Season) Next() (Season, bool) {
	switch s {
	case SeasonSpring:
		return SeasonSummer, false
	case SeasonSummer:
		return SeasonFall, false
	default:
		return SeasonSpring, true
	}
}

type Semester struct {
	ID        string    `db:"id"`
	Season    Season    `db:"season"`
	Year      int       `db:"year"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (s *Semester) Label() string {
	return fmt.Sprintf("%s %d", s.Season, s.Year)
}

// State is the singleton row tracking the active semester; a nil
// ActiveSemesterID means the makerspace is between semesters.
type State struct {
	UniqueID         string  `db:"unique_id"`
	ActiveSemesterID *string `db:"active_semester_id"`
}

// StateUniqueID is the fixed key of the singleton state row.
const StateUniqueID = "UNIQUE"
