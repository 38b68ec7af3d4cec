package http

import (
	"encoding/json"
	"net/http"

	"bilancio/internal/core"
	"bilancio/internal/report"
	"bilancio/internal/services"
)

type transactionDTO struct {
	ID              string       `json:"id"`
	Kind            string       `json:"kind"`
	Description     string       `json:"description"`
	Amount          string       `json:"amount"`
	Date            string       `json:"date"`
	DueDate         string       `json:"due_date,omitempty"`
	Status          string       `json:"status"`
	EffectiveStatus string       `json:"effective_status"`
	Synthetic       bool         `json:"synthetic"`
	Category        *categoryDTO `json:"category,omitempty"`
	Subcategory     *categoryDTO `json:"subcategory,omitempty"`
}

type categoryDTO struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

type summaryDTO struct {
	TotalIncome      string `json:"total_income"`
	TotalExpenses    string `json:"total_expenses"`
	TotalBalance     string `json:"total_balance"`
	AvailableBalance string `json:"available_balance"`
}

type shareDTO struct {
	Name       string  `json:"name"`
	Amount     string  `json:"amount"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color,omitempty"`
}

type appendRequest struct {
	Kind        string       `json:"kind"`
	Description string       `json:"description"`
	Amount      string       `json:"amount"`
	Date        string       `json:"date"`
	DueDate     string       `json:"due_date"`
	Status      string       `json:"status"`
	Recurrence  *struct {
		IsRecurring bool   `json:"is_recurring"`
		Rule        string `json:"rule"`
		CustomDay   int    `json:"custom_day"`
		MonthsCap   int    `json:"months_cap"`
	} `json:"recurrence"`
	Category    *categoryDTO `json:"category"`
	Subcategory *categoryDTO `json:"subcategory"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	today, err := parseToday(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid today date, expected YYYY-MM-DD")
		return
	}
	horizon, err := parseHorizon(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid horizon, expected 1-120 months")
		return
	}

	annotated, err := s.ledger.Transactions(r.Context(), today, horizon)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	dtos := make([]transactionDTO, len(annotated))
	for i, a := range annotated {
		dtos[i] = toDTO(a)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"today":        today.String(),
		"transactions": dtos,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	today, err := parseToday(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid today date, expected YYYY-MM-DD")
		return
	}
	horizon, err := parseHorizon(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid horizon, expected 1-120 months")
		return
	}

	summary, err := s.ledger.Summary(r.Context(), today, horizon)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	respondJSON(w, http.StatusOK, summaryDTO{
		TotalIncome:      core.FormatAmount(summary.TotalIncome),
		TotalExpenses:    core.FormatAmount(summary.TotalExpenses),
		TotalBalance:     core.FormatAmount(summary.TotalBalance),
		AvailableBalance: core.FormatAmount(summary.AvailableBalance),
	})
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	today, err := parseToday(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid today date, expected YYYY-MM-DD")
		return
	}
	horizon, err := parseHorizon(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid horizon, expected 1-120 months")
		return
	}

	shares, err := s.ledger.Breakdown(r.Context(), today, horizon)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute breakdown")
		return
	}
	dtos := make([]shareDTO, len(shares))
	for i, share := range shares {
		dtos[i] = toShareDTO(share)
	}
	respondJSON(w, http.StatusOK, map[string]any{"breakdown": dtos})
}

func (s *Server) handleAppendTransaction(w http.ResponseWriter, r *http.Request) {
	if s.writer == nil {
		respondError(w, http.StatusNotImplemented, "backend is read-only")
		return
	}

	var req appendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t, err := fromAppendRequest(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.writer.Append(r.Context(), t)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func fromAppendRequest(req appendRequest) (core.Transaction, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	t := core.Transaction{
		Kind:        core.Kind(req.Kind),
		Description: req.Description,
		Amount:      amount,
		Date:        date,
		Status:      core.Status(req.Status),
	}
	if req.DueDate != "" {
		if t.DueDate, err = core.ParseDate(req.DueDate); err != nil {
			return core.Transaction{}, err
		}
	}
	if req.Recurrence != nil {
		t.Recurrence = &core.RecurrenceSpec{
			IsRecurring: req.Recurrence.IsRecurring,
			Rule:        core.RuleKind(req.Recurrence.Rule),
			CustomDay:   req.Recurrence.CustomDay,
			MonthsCap:   req.Recurrence.MonthsCap,
		}
	}
	if req.Category != nil {
		t.Category = &core.CategoryRef{Name: req.Category.Name, Color: req.Category.Color, Icon: req.Category.Icon}
	}
	if req.Subcategory != nil {
		t.Subcategory = &core.CategoryRef{Name: req.Subcategory.Name, Color: req.Subcategory.Color, Icon: req.Subcategory.Icon}
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func toDTO(a services.AnnotatedTransaction) transactionDTO {
	dto := transactionDTO{
		ID:              a.ID,
		Kind:            string(a.Kind),
		Description:     a.Description,
		Amount:          core.FormatAmount(a.Amount),
		Date:            a.Date.String(),
		Status:          string(a.Status),
		EffectiveStatus: string(a.EffectiveStatus),
		Synthetic:       a.IsSynthetic(),
	}
	if !a.DueDate.IsZero() {
		dto.DueDate = a.DueDate.String()
	}
	if a.Category != nil {
		dto.Category = &categoryDTO{Name: a.Category.Name, Color: a.Category.Color, Icon: a.Category.Icon}
	}
	if a.Subcategory != nil {
		dto.Subcategory = &categoryDTO{Name: a.Subcategory.Name, Color: a.Subcategory.Color, Icon: a.Subcategory.Icon}
	}
	return dto
}

func toShareDTO(share report.CategoryShare) shareDTO {
	return shareDTO{
		Name:       share.Name,
		Amount:     core.FormatAmount(share.Amount),
		Percentage: share.Percentage,
		Color:      share.Color,
	}
}
