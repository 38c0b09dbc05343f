package types

// AttendanceRequest is the body of POST /v1/entry, /v1/exit and the
// waitlist endpoints. Waitlist endpoints accept either ID or Keys.
type AttendanceRequest struct {
	ID   string   `json:"id,omitempty"`
	Keys []string `json:"keys,omitempty"`
}

// MemberView is a roster member as shown to API clients.
type MemberView struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// AttendanceResponse reports a successful engine operation.
type AttendanceResponse struct {
	OK         bool       `json:"ok"`
	Outcome    string     `json:"outcome"`
	Member     MemberView `json:"member"`
	At         string     `json:"at,omitempty"`
	Position   int        `json:"position,omitempty"`
	RecordID   string     `json:"record_id,omitempty"`
	Remaining  int        `json:"remaining"`
	ServerTime string     `json:"server_time"`
}

// BatchResponse reports a multi-key waitlist operation.
type BatchResponse struct {
	OK         bool                 `json:"ok"`
	Done       []AttendanceResponse `json:"done"`
	Rejected   []ErrorResponse      `json:"rejected"`
	Remaining  int                  `json:"remaining"`
	ServerTime string               `json:"server_time"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Member  *MemberView `json:"member,omitempty"`
}
