package tasks

import "time"

type createRequest struct {
	Title string `json:"title"`
}

type updateRequest struct {
	Done *bool `json:"done"`
}

// taskResponse is the public shape of a task. Storage ids and any
// backend metadata never leave the package.
type taskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(t Task) taskResponse {
	return taskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Done:      t.Done,
		CreatedAt: t.CreatedAt.UTC(),
	}
}

func toResponseList(list []Task) []taskResponse {
	out := make([]taskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toResponse(t))
	}
	return out
}
