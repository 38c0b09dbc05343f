package types

type InsideView struct {
	Member    MemberView `json:"member"`
	EnteredAt string     `json:"entered_at"`
}

type WaitingView struct {
	Position int        `json:"position"`
	Member   MemberView `json:"member"`
}

// StatusResponse is the body of GET /v1/status.
type StatusResponse struct {
	Capacity   int           `json:"capacity"`
	Remaining  int           `json:"remaining"`
	Inside     []InsideView  `json:"inside"`
	Waiting    []WaitingView `json:"waiting"`
	ServerTime string        `json:"server_time"`
}

type LogRecordView struct {
	ID        string     `json:"id"`
	Member    MemberView `json:"member"`
	EnteredAt string     `json:"entered_at"`
	ExitedAt  string     `json:"exited_at,omitempty"`
}

// LogResponse is the body of GET /v1/log.
type LogResponse struct {
	Records    []LogRecordView `json:"records"`
	ServerTime string          `json:"server_time"`
}

// SummaryResponse is the body of GET /v1/summary. Weekly and monthly
// figures are not tracked.
type SummaryResponse struct {
	Daily      map[string]int `json:"daily"`
	Total      int            `json:"total"`
	ServerTime string         `json:"server_time"`
}
