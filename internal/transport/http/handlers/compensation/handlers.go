package compensationhandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrpay/internal/domain/audit"
	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/compensation"
	"hrpay/internal/domain/payroll"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
	"hrpay/internal/transport/http/shared"
)

type Handler struct {
	DB      *pgxpool.Pool
	Perms   middleware.PermissionStore
	Service *compensation.Service
	Payroll *payroll.Service
}

func NewHandler(db *pgxpool.Pool, perms middleware.PermissionStore, payrollSvc *payroll.Service) *Handler {
	return &Handler{
		DB:      db,
		Perms:   perms,
		Service: compensation.NewService(db),
		Payroll: payrollSvc,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/compensation-items", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCompensationRead, h.Perms)).Get("/pending", h.handleListPending)
		r.With(middleware.RequirePermission(auth.PermCompensationRead, h.Perms)).Get("/employee/{employeeID}", h.handleListForEmployee)
		r.With(middleware.RequirePermission(auth.PermCompensationDecide, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermCompensationDecide, h.Perms)).Post("/{itemID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermCompensationDecide, h.Perms)).Post("/{itemID}/reject", h.handleReject)
		r.With(middleware.RequirePermission(auth.PermCompensationDecide, h.Perms)).Patch("/{itemID}", h.handleEdit)
	})
}

func (h *Handler) handleListPending(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListPending(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "compensation_list_failed", "failed to list pending items", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListForEmployee(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListForEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "compensation_list_failed", "failed to list items", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

type createPayload struct {
	EmployeeID           string `json:"employeeId"`
	Kind                 string `json:"kind"`
	Amount               string `json:"amount"`
	Note                 string `json:"note"`
	ScheduledPaymentDate string `json:"scheduledPaymentDate"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	v.Enum("kind", payload.Kind, []string{
		compensation.KindSigningBonus,
		compensation.KindTerminationBenefit,
		compensation.KindResignationBenefit,
	}, "kind must be a known compensation kind")
	amount, _ := v.Amount("amount", payload.Amount)
	scheduled := parseScheduledDate(v, payload.ScheduledPaymentDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	item, err := h.Service.Create(r.Context(), compensation.CreateInput{
		EmployeeID:           payload.EmployeeID,
		Kind:                 payload.Kind,
		Amount:               amount,
		Note:                 payload.Note,
		ScheduledPaymentDate: scheduled,
	})
	if err != nil {
		h.failFromError(w, r, err, "compensation_create_failed", "failed to create compensation item")
		return
	}

	if err := audit.New(h.DB).Record(r.Context(), user.UserID, "compensation.create", "compensation_item", item.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, item); err != nil {
		log.Printf("audit compensation.create failed: %v", err)
	}
	api.Created(w, item, middleware.GetRequestID(r.Context()))
}

type decisionPayload struct {
	Note string `json:"note"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "approve")
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "reject")
}

// decide handles both decisions; an approved amount must land in every draft
// run the employee appears in, so the affected employee is recomputed after
// the status change commits.
func (h *Handler) decide(w http.ResponseWriter, r *http.Request, action string) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload decisionPayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	itemID := chi.URLParam(r, "itemID")
	var item compensation.Item
	var err error
	if action == "approve" {
		item, err = h.Service.Approve(r.Context(), itemID, user.UserID, payload.Note)
	} else {
		item, err = h.Service.Reject(r.Context(), itemID, user.UserID, payload.Note)
	}
	if err != nil {
		h.failFromError(w, r, err, "compensation_decision_failed", "failed to record decision")
		return
	}

	if err := h.Payroll.RecomputeEmployeeEverywhere(r.Context(), item.EmployeeID); err != nil {
		log.Printf("recompute after compensation %s failed for employee %s: %v", action, item.EmployeeID, err)
	}

	if err := audit.New(h.DB).Record(r.Context(), user.UserID, "compensation."+action, "compensation_item", item.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, item); err != nil {
		log.Printf("audit compensation.%s failed: %v", action, err)
	}
	api.Success(w, item, middleware.GetRequestID(r.Context()))
}

type editPayload struct {
	Amount               *string `json:"amount"`
	ScheduledPaymentDate *string `json:"scheduledPaymentDate"`
	Note                 *string `json:"note"`
}

// parseScheduledDate turns an optional payload date into a nullable value,
// recording a validation issue for anything unparseable.
func parseScheduledDate(v *shared.Validator, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed, err := shared.ParseDate(raw)
	if err != nil {
		v.Add("scheduledPaymentDate", "must be an RFC3339 timestamp or a YYYY-MM-DD date")
		return nil
	}
	return &parsed
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload editPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	input := compensation.EditInput{Note: payload.Note}
	v := shared.NewValidator()
	if payload.Amount != nil {
		if amount, ok := v.Amount("amount", *payload.Amount); ok {
			input.Amount = &amount
		}
	}
	if payload.ScheduledPaymentDate != nil {
		input.ScheduledPaymentDate = parseScheduledDate(v, *payload.ScheduledPaymentDate)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	itemID := chi.URLParam(r, "itemID")
	item, err := h.Service.Edit(r.Context(), itemID, input)
	if err != nil {
		h.failFromError(w, r, err, "compensation_edit_failed", "failed to edit compensation item")
		return
	}

	if err := h.Payroll.RecomputeEmployeeEverywhere(r.Context(), item.EmployeeID); err != nil {
		log.Printf("recompute after compensation edit failed for employee %s: %v", item.EmployeeID, err)
	}

	if err := audit.New(h.DB).Record(r.Context(), user.UserID, "compensation.edit", "compensation_item", item.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, item); err != nil {
		log.Printf("audit compensation.edit failed: %v", err)
	}
	api.Success(w, item, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failFromError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, compensation.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "compensation_not_found", "compensation item not found", reqID)
	case errors.Is(err, compensation.ErrAlreadyRejected), errors.Is(err, compensation.ErrNotPending):
		api.Fail(w, http.StatusConflict, "compensation_state_conflict", err.Error(), reqID)
	case errors.Is(err, compensation.ErrInvalidKind), errors.Is(err, compensation.ErrInvalidAmount):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}
