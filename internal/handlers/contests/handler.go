package contests

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/core/services/contest"
	"gitlab.com/codetrack/judged/internal/core/services/leaderboard"
	"gitlab.com/codetrack/judged/internal/core/services/queue"
	"gitlab.com/codetrack/judged/internal/domain"
	"gitlab.com/codetrack/judged/internal/handlers"
)

// ContestHandler handles contest API requests
type ContestHandler struct {
	contestService contest.IContestService
	aggregator     leaderboard.IAggregator
	queue          queue.ISubmissionQueue
	logger         primary.Logger
}

// NewContestHandler creates a new contest handler
func NewContestHandler(
	contestService contest.IContestService,
	aggregator leaderboard.IAggregator,
	q queue.ISubmissionQueue,
	logger primary.Logger,
) *ContestHandler {
	return &ContestHandler{
		contestService: contestService,
		aggregator:     aggregator,
		queue:          q,
		logger:         logger,
	}
}

// RegisterRoutes registers the API routes for ContestHandler
func (h *ContestHandler) RegisterRoutes(router *mux.Router, mw *handlers.MiddlewareProvider) {
	router.HandleFunc("/api/contests/{contestId}/leaderboard", h.GetLeaderboard).Methods("GET")
	router.HandleFunc("/api/contests/{contestId}/stop", mw.AdminOnly(h.StopContest)).Methods("POST")
	router.HandleFunc("/api/problems/{problemId}", mw.AdminOnly(h.UpsertProblem)).Methods("PUT")
}

// GetLeaderboard handles leaderboard retrieval requests
func (h *ContestHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	contestID := vars["contestId"]

	entries, err := h.aggregator.Board(r.Context(), contestID)
	if err != nil {
		h.logger.Error("Failed to get leaderboard", "contest", contestID, "error", err)
		http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"entries": entries})
}

// StopContest cancels every queued submission of a contest. Running
// submissions finish normally.
func (h *ContestHandler) StopContest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	contestID := vars["contestId"]

	canceled, err := h.queue.CancelContest(r.Context(), contestID)
	if err != nil {
		h.logger.Error("Failed to stop contest", "contest", contestID, "error", err)
		http.Error(w, "Failed to stop contest", http.StatusInternalServerError)
		return
	}

	resp := StopContestResponse{
		ContestID: contestID,
		Canceled:  canceled,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// UpsertProblem handles problem definition requests
func (h *ContestHandler) UpsertProblem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	problemID := vars["problemId"]

	var req UpsertProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.ContestID == "" || len(req.TestCases) == 0 {
		http.Error(w, "Contest ID and test cases are required", http.StatusBadRequest)
		return
	}

	problem := &domain.Problem{
		ID:            problemID,
		ContestID:     req.ContestID,
		TimeLimitMs:   req.TimeLimitMs,
		MemoryLimitKB: req.MemoryLimitKB,
		StrictCompare: req.StrictCompare,
		Mode:          domain.JudgeMode(req.Mode),
	}

	cases := make([]*domain.TestCase, 0, len(req.TestCases))
	for i, tc := range req.TestCases {
		ordinal := tc.Ordinal
		if ordinal == 0 {
			ordinal = i + 1
		}
		cases = append(cases, &domain.TestCase{
			ID:             uuid.New(),
			ProblemID:      problemID,
			Ordinal:        ordinal,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			IsSample:       tc.IsSample,
			Weight:         tc.Weight,
		})
	}

	if err := h.contestService.UpsertProblem(r.Context(), problem, cases); err != nil {
		h.logger.Error("Failed to upsert problem", "problem", problemID, "error", err)
		http.Error(w, "Failed to upsert problem", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
