package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/BrandonDHaskell/gymgate/internal/gym/service"
	"github.com/BrandonDHaskell/gymgate/internal/gym/types"
)

type Dependencies struct {
	Logger           *slog.Logger
	Addr             string
	AdmissionService *service.AdmissionService
	// Metrics, when set, is served at GET /metrics.
	Metrics http.Handler
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	mux        *http.ServeMux
	admission  *service.AdmissionService
	now        func() time.Time
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		logger:    logger,
		mux:       mux,
		admission: d.AdmissionService,
		now:       func() time.Time { return time.Now().UTC() },
	}

	mux.HandleFunc("POST /v1/entry", s.handleEntry)
	mux.HandleFunc("POST /v1/exit", s.handleExit)
	mux.HandleFunc("POST /v1/waitlist/admit", s.handleAdmit)
	mux.HandleFunc("POST /v1/waitlist/cancel", s.handleCancel)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/log", s.handleLog)
	mux.HandleFunc("GET /v1/summary", s.handleSummary)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	handler := loggingMiddleware(logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ── Operations ───────────────────────────────────────────────────────────────

func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	res, err := s.admission.RegisterEntry(r.Context(), req.ID)
	if err != nil {
		s.writeRejection(w, r, err)
		return
	}

	status := http.StatusOK
	if res.Outcome == service.OutcomeQueued {
		status = http.StatusAccepted
	}
	s.respond(w, r, status, resultToResponse(res, s.admission.Remaining(), s.now()))
}

func (s *Server) handleExit(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	res, err := s.admission.RegisterExit(r.Context(), req.ID)
	if err != nil {
		s.writeRejection(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, resultToResponse(res, s.admission.Remaining(), s.now()))
}

func (s *Server) handleAdmit(w http.ResponseWriter, r *http.Request) {
	s.handleWaitlist(w, r, s.admission.AdmitFromWaiting, s.admission.AdmitSelected)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.handleWaitlist(w, r, s.admission.CancelWaiting, s.admission.CancelSelected)
}

func (s *Server) handleWaitlist(
	w http.ResponseWriter,
	r *http.Request,
	single func(context.Context, string) (service.Result, error),
	batch func(context.Context, []string) service.BatchResult,
) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	if len(req.Keys) > 0 {
		out := batch(r.Context(), req.Keys)
		s.respond(w, r, http.StatusOK, batchToResponse(out, s.admission.Remaining(), s.now()))
		return
	}

	res, err := single(r.Context(), req.ID)
	if err != nil {
		s.writeRejection(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, resultToResponse(res, s.admission.Remaining(), s.now()))
}

// ── Snapshots ────────────────────────────────────────────────────────────────

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, statusToResponse(s.admission.Snapshot(), s.now()))
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, logToResponse(s.admission.DayLog(), s.now()))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, summaryToResponse(s.admission.Summary(), s.now()))
}

// ── Encoding ─────────────────────────────────────────────────────────────────

// decodeRequest reads either a JSON AttendanceRequest or a protobuf
// StringValue carrying the id. It writes the error response itself.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (types.AttendanceRequest, bool) {
	var req types.AttendanceRequest

	if isProtobuf(r) {
		id, err := readIDProto(r)
		if err != nil {
			s.fail(w, r, http.StatusBadRequest, "bad_proto", "invalid protobuf body")
			return req, false
		}
		req.ID = id
	} else {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			s.fail(w, r, http.StatusBadRequest, "bad_json", "invalid JSON body")
			return req, false
		}
	}

	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" && len(req.Keys) == 0 {
		s.fail(w, r, http.StatusBadRequest, "invalid_id", service.ErrInvalidID.Error())
		return req, false
	}
	return req, true
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if wantsProtobuf(r) {
		msg, err := toStruct(v)
		if err != nil {
			s.logger.Error("protobuf encode failed", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
			return
		}
		writeProto(w, status, msg)
		return
	}
	writeJSON(w, status, v)
}

// fail writes an error body in whichever encoding the client accepts.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.respond(w, r, status, types.ErrorResponse{Error: code, Message: message})
}

func (s *Server) writeRejection(w http.ResponseWriter, r *http.Request, err error) {
	if _, ok := asRejection(err); !ok {
		s.logger.Error("attendance error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}
	s.respond(w, r, statusFor(err), errorToResponse(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAmbiguousID):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyInside),
		errors.Is(err, service.ErrAlreadyWaiting),
		errors.Is(err, service.ErrNotInside),
		errors.Is(err, service.ErrNotWaiting),
		errors.Is(err, service.ErrCannotAdmit):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func asRejection(err error) (*service.RejectionError, bool) {
	var rej *service.RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, types.ErrorResponse{Error: code, Message: message})
}
