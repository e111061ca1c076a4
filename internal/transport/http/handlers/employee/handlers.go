package employeehandler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrpay/internal/domain/audit"
	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/employee"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
	"hrpay/internal/transport/http/shared"
)

type Handler struct {
	DB    *pgxpool.Pool
	Perms middleware.PermissionStore
	Store *employee.Store
}

func NewHandler(db *pgxpool.Pool, perms middleware.PermissionStore) *Handler {
	return &Handler{DB: db, Perms: perms, Store: employee.NewStore(db)}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/{employeeID}/bank-details", h.handleUpdateBankDetails)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	search := r.URL.Query().Get("search")

	employees, total, err := h.Store.List(r.Context(), search, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"items": employees, "total": total}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, snap, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateBankDetails(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload employee.BankDetails
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("bankName", payload.BankName, "bank name is required")
	v.Required("bankAccountNumber", payload.BankAccountNumber, "bank account number is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	before, err := h.Store.Get(r.Context(), employeeID)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update bank details", middleware.GetRequestID(r.Context()))
		return
	}

	tx, err := h.DB.Begin(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update bank details", middleware.GetRequestID(r.Context()))
		return
	}
	defer tx.Rollback(r.Context())

	if err := h.Store.UpdateBankDetailsTx(r.Context(), tx, employeeID, payload); err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update bank details", middleware.GetRequestID(r.Context()))
		return
	}
	if err := tx.Commit(r.Context()); err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update bank details", middleware.GetRequestID(r.Context()))
		return
	}

	if err := audit.New(h.DB).Record(r.Context(), user.UserID, "employee.bank_details.update", "employee", employeeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), map[string]any{"bankName": before.BankName}, payload); err != nil {
		log.Printf("audit employee.bank_details.update failed: %v", err)
	}

	snap, err := h.Store.Get(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, snap, middleware.GetRequestID(r.Context()))
}
