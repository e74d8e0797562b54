// AngelaMos | 2026
// dto.go

package audit

import "time"

type EntryResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   Content   `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func ToEntryResponse(e *Entry) EntryResponse {
	return EntryResponse{
		ID:        e.ID,
		Type:      e.Type,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
	}
}

func ToEntryResponseList(entries []Entry) []EntryResponse {
	responses := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, ToEntryResponse(&entries[i]))
	}
	return responses
}
