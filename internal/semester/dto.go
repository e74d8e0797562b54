// AngelaMos | 2026
// dto.go

package semester

import (
	"time"
)

type CreateSemesterRequest struct {
	Season Season `json:"season" validate:"required,oneof=spring summer fall"`
	Year   int    `json:"year"   validate:"required,gte=2000,lte=2200"`
}

type UpdateSemesterRequest struct {
	Season *Season `json:"season,omitempty" validate:"omitempty,oneof=spring summer fall"`
	Year   *int    `json:"year,omitempty"   validate:"omitempty,gte=2000,lte=2200"`
}

type SetSemesterRequest struct {
	// SemesterID nil clears the active semester.
	SemesterID *string `json:"semester_id" validate:"omitempty,uuid4"`
}

type SemesterResponse struct {
	ID        string    `json:"id"`
	Season    Season    `json:"season"`
	Year      int       `json:"year"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StateResponse struct {
	ActiveSemester *SemesterResponse `json:"active_semester"`
}

func ToSemesterResponse(s *Semester) SemesterResponse {
	return SemesterResponse{
		ID:        s.ID,
		Season:    s.Season,
		Year:      s.Year,
		Label:     s.Label(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ToSemesterResponseList(semesters []Semester) []SemesterResponse {
	responses := make([]SemesterResponse, 0, len(semesters))
	for i := range semesters {
		responses = append(responses, ToSemesterResponse(&semesters[i]))
	}
	return responses
}
