package submissions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/core/services/contest"
	"gitlab.com/codetrack/judged/internal/core/services/queue"
	"gitlab.com/codetrack/judged/internal/domain"
	"gitlab.com/codetrack/judged/internal/handlers/response"
)

// SubmissionHandler handles submission API requests
type SubmissionHandler struct {
	queue          queue.ISubmissionQueue
	contestService contest.IContestService
	logger         primary.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(q queue.ISubmissionQueue, contestService contest.IContestService, logger primary.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		queue:          q,
		contestService: contestService,
		logger:         logger,
	}
}

// RegisterRoutes registers the API routes for SubmissionHandler
func (h *SubmissionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/contests/{contestId}/submissions", h.CreateSubmission).Methods("POST")
	router.HandleFunc("/api/submissions/{submissionId}", h.GetSubmission).Methods("GET")
	router.HandleFunc("/api/languages", h.GetLanguages).Methods("GET")
}

// CreateSubmission handles submission requests
func (h *SubmissionHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	contestID := vars["contestId"]

	var req CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	lang, err := domain.ParseLanguage(req.Language)
	if err != nil {
		http.Error(w, "Unsupported language", http.StatusBadRequest)
		return
	}

	sub := domain.NewSubmission(contestID, req.ProblemID, req.UserID, lang, req.SourceCode)
	if err := h.queue.Submit(r.Context(), sub); err != nil {
		switch {
		case errors.Is(err, domain.ErrThrottled):
			http.Error(w, "Submission queue full, retry later", http.StatusTooManyRequests)
		case errors.Is(err, domain.ErrInvalidSubmission), errors.Is(err, domain.ErrUnsupportedLanguage):
			http.Error(w, "Invalid submission", http.StatusBadRequest)
		case errors.Is(err, domain.ErrSourceTooLarge):
			http.Error(w, "Source code too large", http.StatusBadRequest)
		case errors.Is(err, domain.ErrQueueClosed):
			http.Error(w, "Service shutting down", http.StatusServiceUnavailable)
		default:
			h.logger.Error("Failed to admit submission", "error", err)
			http.Error(w, "Failed to admit submission", http.StatusInternalServerError)
		}
		return
	}

	resp := CreateSubmissionResponse{
		SubmissionID: sub.ID,
		Status:       sub.Status,
	}

	response.WriteStatus(w, http.StatusAccepted, resp)
}

// GetSubmission handles submission retrieval requests
func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	subIDStr := vars["submissionId"]

	subID, err := uuid.Parse(subIDStr)
	if err != nil {
		h.logger.Error("Invalid submission ID", "id", subIDStr)
		http.Error(w, "Invalid submission ID", http.StatusBadRequest)
		return
	}

	detail, err := h.contestService.GetSubmissionDetail(r.Context(), subID)
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionNotFound) {
			http.Error(w, "Submission not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get submission", "error", err)
		http.Error(w, "Failed to get submission", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toSubmissionView(detail))
}

// GetLanguages handles supported language retrieval requests
func (h *SubmissionHandler) GetLanguages(w http.ResponseWriter, r *http.Request) {
	langs := domain.SupportedLanguages()
	names := make([]string, 0, len(langs))
	for _, l := range langs {
		names = append(names, string(l))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"languages": names})
}

// toSubmissionView maps a submission detail to its outward shape, stripping
// the program output of hidden test cases
func toSubmissionView(detail *contest.SubmissionDetail) SubmissionView {
	sub := detail.Submission
	view := SubmissionView{
		SubmissionID: sub.ID,
		ContestID:    sub.ContestID,
		ProblemID:    sub.ProblemID,
		UserID:       sub.UserID,
		Language:     sub.Language,
		Status:       sub.Status,
		Verdict:      sub.Verdict,
		Score:        sub.Score,
		SubmittedAt:  sub.SubmittedAt,
		JudgedAt:     sub.JudgedAt,
		Results:      make([]TestCaseResultView, 0, len(detail.Results)),
	}

	for _, res := range detail.Results {
		rv := TestCaseResultView{
			Ordinal:  res.Ordinal,
			Verdict:  res.Verdict,
			Passed:   res.Passed(),
			TimeMs:   res.TimeMs,
			MemoryKB: res.MemoryKB,
		}
		if !detail.Hidden[res.TestCaseID] {
			rv.Output = res.ActualOutput
		}
		view.Results = append(view.Results, rv)
	}

	return view
}
