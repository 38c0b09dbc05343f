package httpapi

import (
	"time"

	"github.com/BrandonDHaskell/gymgate/internal/gym/roster"
	"github.com/BrandonDHaskell/gymgate/internal/gym/service"
	"github.com/BrandonDHaskell/gymgate/internal/gym/types"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func memberView(key string, m roster.Member) types.MemberView {
	return types.MemberView{Key: key, Name: m.Name, Category: m.Category.String()}
}

// ── Operations ───────────────────────────────────────────────────────────────

func resultToResponse(res service.Result, remaining int, now time.Time) types.AttendanceResponse {
	return types.AttendanceResponse{
		OK:         true,
		Outcome:    string(res.Outcome),
		Member:     memberView(res.Key, res.Member),
		At:         formatTime(res.At),
		Position:   res.Position,
		RecordID:   res.RecordID,
		Remaining:  remaining,
		ServerTime: formatTime(now),
	}
}

func batchToResponse(b service.BatchResult, remaining int, now time.Time) types.BatchResponse {
	out := types.BatchResponse{
		OK:         len(b.Rejected) == 0,
		Done:       make([]types.AttendanceResponse, 0, len(b.Done)),
		Rejected:   make([]types.ErrorResponse, 0, len(b.Rejected)),
		Remaining:  remaining,
		ServerTime: formatTime(now),
	}
	for _, r := range b.Done {
		out.Done = append(out.Done, resultToResponse(r, remaining, now))
	}
	for _, err := range b.Rejected {
		out.Rejected = append(out.Rejected, errorToResponse(err))
	}
	return out
}

func errorToResponse(err error) types.ErrorResponse {
	resp := types.ErrorResponse{Error: service.Kind(err), Message: err.Error()}
	if rej, ok := asRejection(err); ok && rej.Member != nil {
		mv := memberView(rej.Key, *rej.Member)
		resp.Member = &mv
	}
	return resp
}

// ── Snapshots ────────────────────────────────────────────────────────────────

func statusToResponse(s service.Snapshot, now time.Time) types.StatusResponse {
	out := types.StatusResponse{
		Capacity:   s.Capacity,
		Remaining:  s.Remaining,
		Inside:     make([]types.InsideView, 0, len(s.Inside)),
		Waiting:    make([]types.WaitingView, 0, len(s.Waiting)),
		ServerTime: formatTime(now),
	}
	for _, e := range s.Inside {
		out.Inside = append(out.Inside, types.InsideView{
			Member:    memberView(e.Key, e.Member),
			EnteredAt: formatTime(e.EnteredAt),
		})
	}
	for _, w := range s.Waiting {
		out.Waiting = append(out.Waiting, types.WaitingView{
			Position: w.Position,
			Member:   memberView(w.Key, w.Member),
		})
	}
	return out
}

func logToResponse(records []service.AuditRecord, now time.Time) types.LogResponse {
	out := types.LogResponse{
		Records:    make([]types.LogRecordView, 0, len(records)),
		ServerTime: formatTime(now),
	}
	for _, r := range records {
		v := types.LogRecordView{
			ID: r.ID,
			Member: types.MemberView{
				Key:      r.Key,
				Name:     r.Name,
				Category: r.Category.String(),
			},
			EnteredAt: formatTime(r.EnteredAt),
		}
		if r.ExitedAt != nil {
			v.ExitedAt = formatTime(*r.ExitedAt)
		}
		out.Records = append(out.Records, v)
	}
	return out
}

func summaryToResponse(summary map[roster.Category]int, now time.Time) types.SummaryResponse {
	out := types.SummaryResponse{
		Daily:      make(map[string]int, len(summary)),
		ServerTime: formatTime(now),
	}
	for c, n := range summary {
		out.Daily[c.String()] = n
		out.Total += n
	}
	return out
}
