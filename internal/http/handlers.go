package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"scribble/internal/core"
	applog "scribble/internal/log"
	"scribble/internal/split"
)

// Error kinds surfaced to clients, matching the validation taxonomy.
const (
	kindMissingField         = "missing_field"
	kindNotANumber           = "not_a_number"
	kindDuplicateParticipant = "duplicate_participant"
	kindEmptyName            = "empty_name"
	kindBadRequest           = "bad_request"
	kindStorage              = "storage_error"
)

// flexString decodes a JSON string or number into a string, so clients
// may send `"amount": "12.5"` or `"amount": 12.5` interchangeably.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type addExpenseRequest struct {
	Title       string     `json:"title"`
	Amount      flexString `json:"amount"`
	Date        string     `json:"date"`
	Category    string     `json:"category"`
	IsImportant bool       `json:"isImportant"`
	SplitCount  int        `json:"splitCount"`
}

type expensesResponse struct {
	Expenses []core.Expense `json:"expenses"`
	Total    float64        `json:"total"`
}

// handleListExpenses backs the home view: the full list newest first,
// plus the running total. Reload first, this is the load-on-focus read.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.ledger.Reload(ctx)
	writeJSON(w, http.StatusOK, expensesResponse{
		Expenses: s.ledger.List(ctx),
		Total:    s.ledger.Total(ctx),
	})
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindBadRequest, "invalid request body")
		return
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = time.Now().Format("2006/01/02")
	}

	e, err := s.ledger.Add(ctx, core.Candidate{
		Title:       req.Title,
		Amount:      string(req.Amount),
		Date:        date,
		Category:    core.Category(req.Category),
		IsImportant: req.IsImportant,
		SplitCount:  req.SplitCount,
	})
	switch {
	case errors.Is(err, core.ErrMissingField):
		writeError(w, http.StatusUnprocessableEntity, kindMissingField, "please fill in both title and amount")
		return
	case errors.Is(err, core.ErrNotANumber):
		writeError(w, http.StatusUnprocessableEntity, kindNotANumber, "the amount should be a number")
		return
	case err != nil:
		// Soft failure: the record exists in the session but was not
		// persisted. Report it, return the record anyway.
		applog.FromContext(ctx).Error("Expense saved in session only", applog.FieldError, err)
		writeJSON(w, http.StatusAccepted, e)
		return
	}

	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := s.ledger.Remove(ctx, id); err != nil {
		writeError(w, http.StatusInternalServerError, kindStorage, "could not save the change")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type summaryResponse struct {
	Total      float64            `json:"total"`
	Count      int                `json:"count"`
	ByCategory map[string]float64 `json:"byCategory"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.ledger.Reload(ctx)

	byCategory := make(map[string]float64)
	for cat, total := range s.ledger.TotalsByCategory(ctx) {
		byCategory[string(cat)] = total
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Total:      s.ledger.Total(ctx),
		Count:      s.ledger.Count(ctx),
		ByCategory: byCategory,
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.ClearAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, kindStorage, "could not clear your expenses")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type splitResponse struct {
	Total        float64  `json:"total"`
	Participants []string `json:"participants"`
	PerPerson    float64  `json:"perPerson"`
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.ledger.Reload(ctx)
	total := s.ledger.Total(ctx)

	s.rosterMu.Lock()
	resp := splitResponse{
		Total:        total,
		Participants: s.roster.Participants(),
		PerPerson:    s.roster.PerPersonShare(total),
	}
	s.rosterMu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

type addParticipantRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	var req addParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindBadRequest, "invalid request body")
		return
	}

	s.rosterMu.Lock()
	err := s.roster.Add(req.Name)
	s.rosterMu.Unlock()

	switch {
	case errors.Is(err, split.ErrEmptyName):
		writeError(w, http.StatusUnprocessableEntity, kindEmptyName, "participant name cannot be empty")
		return
	case errors.Is(err, split.ErrDuplicateParticipant):
		writeError(w, http.StatusConflict, kindDuplicateParticipant, "that person is already on the list")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// handleRemoveParticipant removes an added participant. Unknown names
// and the protected self entry are both no-ops.
func (s *Server) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	s.rosterMu.Lock()
	s.roster.Remove(name)
	s.rosterMu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}
