package payrollhandler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrpay/internal/domain/audit"
	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/employee"
	"hrpay/internal/domain/payconfig"
	"hrpay/internal/domain/payroll"
	"hrpay/internal/platform/crypto"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
	"hrpay/internal/transport/http/shared"
)

type Handler struct {
	DB         *pgxpool.Pool
	Perms      middleware.PermissionStore
	Service    *payroll.Service
	Crypto     *crypto.Service
	PayslipDir string
}

func NewHandler(db *pgxpool.Pool, perms middleware.PermissionStore, svc *payroll.Service, cryptoSvc *crypto.Service, payslipDir string) *Handler {
	return &Handler{DB: db, Perms: perms, Service: svc, Crypto: cryptoSvc, PayslipDir: payslipDir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll-runs", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/", h.handleListRuns)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Post("/", h.handleCreateRun)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/{runID}", h.handleGetRunDraft)
		r.With(middleware.RequirePermission(auth.PermPayrollPublish, h.Perms)).Post("/{runID}/publish", h.handlePublish)
		r.With(middleware.RequirePermission(auth.PermPayrollApprove, h.Perms)).Post("/{runID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermPayrollApprove, h.Perms)).Post("/{runID}/reject", h.handleReject)
		r.With(middleware.RequirePermission(auth.PermPayrollProcess, h.Perms)).Post("/{runID}/process", h.handleProcess)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Post("/{runID}/cancel", h.handleCancel)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Post("/{runID}/employees/{employeeID}/recompute", h.handleRecompute)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/{runID}/exceptions", h.handleListExceptions)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Post("/{runID}/exceptions/{exceptionID}/start", h.handleStartException)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Post("/{runID}/exceptions/{exceptionID}/resolve", h.handleResolveException)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/{runID}/adjustments", h.handleListAdjustments)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms)).Post("/{runID}/adjustments", h.handleCreateAdjustment)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/{runID}/payslips", h.handleListPayslips)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/{runID}/payslips/{employeeID}/download", h.handleDownloadPayslip)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/{runID}/export/register", h.handleExportRegister)
	})
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 25, 100)
	status := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))

	runs, total, err := h.Service.ListRuns(r.Context(), status, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "run_list_failed", "failed to list payroll runs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"items": runs, "total": total}, middleware.GetRequestID(r.Context()))
}

type createRunPayload struct {
	Period      string   `json:"period"`
	Entity      string   `json:"entity"`
	EmployeeIDs []string `json:"employeeIds"`
}

func (h *Handler) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createRunPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("period", payload.Period, "payroll period is required")
	v.Required("entity", payload.Entity, "entity is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	run, err := h.Service.CreateRun(r.Context(), payroll.CreateRunInput{
		Period:       payload.Period,
		Entity:       payload.Entity,
		EmployeeIDs:  payload.EmployeeIDs,
		SpecialistID: user.UserID,
	})
	if err != nil {
		h.failFromError(w, r, err, "run_create_failed", "failed to create payroll run")
		return
	}

	if err := audit.New(h.DB).Record(r.Context(), user.UserID, "payroll.run.create", "payroll_run", run.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, run); err != nil {
		log.Printf("audit payroll.run.create failed: %v", err)
	}
	api.Created(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRunDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.Service.GetRunDraft(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		h.failFromError(w, r, err, "run_get_failed", "failed to load payroll run")
		return
	}
	api.Success(w, draft, middleware.GetRequestID(r.Context()))
}

type publishPayload struct {
	Override bool `json:"override"`
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload publishPayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	run, err := h.Service.Publish(r.Context(), chi.URLParam(r, "runID"), user.UserID, payload.Override)
	if err != nil {
		h.failFromError(w, r, err, "run_publish_failed", "failed to publish payroll run")
		return
	}

	if err := audit.New(h.DB).Record(r.Context(), user.UserID, "payroll.run.publish", "payroll_run", run.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"override": payload.Override, "status": run.Status}); err != nil {
		log.Printf("audit payroll.run.publish failed: %v", err)
	}
	api.Success(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "approve", h.Service.ApproveRun)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reject", h.Service.RejectRun)
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "process", h.Service.MarkProcessed)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "cancel", h.Service.CancelRun)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action string, fn func(ctx context.Context, runID, actorID string) (payroll.Run, error)) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	run, err := fn(r.Context(), chi.URLParam(r, "runID"), user.UserID)
	if err != nil {
		h.failFromError(w, r, err, "run_"+action+"_failed", "failed to "+action+" payroll run")
		return
	}

	if err := audit.New(h.DB).Record(r.Context(), user.UserID, "payroll.run."+action, "payroll_run", run.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"status": run.Status}); err != nil {
		log.Printf("audit payroll.run.%s failed: %v", action, err)
	}
	api.Success(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Service.RecomputeEmployee(r.Context(), chi.URLParam(r, "runID"), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.failFromError(w, r, err, "recompute_failed", "failed to recompute employee")
		return
	}
	api.Success(w, detail, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListExceptions(w http.ResponseWriter, r *http.Request) {
	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	exceptions, err := h.Service.ListExceptions(r.Context(), chi.URLParam(r, "runID"), status)
	if err != nil {
		h.failFromError(w, r, err, "exception_list_failed", "failed to list exceptions")
		return
	}
	api.Success(w, exceptions, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStartException(w http.ResponseWriter, r *http.Request) {
	exc, err := h.Service.MarkExceptionInProgress(r.Context(), chi.URLParam(r, "runID"), chi.URLParam(r, "exceptionID"))
	if err != nil {
		h.failFromError(w, r, err, "exception_start_failed", "failed to mark exception in progress")
		return
	}
	api.Success(w, exc, middleware.GetRequestID(r.Context()))
}

type resolveExceptionPayload struct {
	Note        string                `json:"note"`
	BankDetails *employee.BankDetails `json:"bankDetails,omitempty"`
}

func (h *Handler) handleResolveException(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload resolveExceptionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("note", payload.Note, "a resolution note is required")
	if payload.BankDetails != nil {
		v.Required("bankDetails.bankName", payload.BankDetails.BankName, "bank name is required")
		v.Required("bankDetails.bankAccountNumber", payload.BankDetails.BankAccountNumber, "bank account number is required")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	runID := chi.URLParam(r, "runID")
	exceptionID := chi.URLParam(r, "exceptionID")
	detail, err := h.Service.ResolveException(r.Context(), runID, payroll.ResolveExceptionInput{
		ExceptionID: exceptionID,
		Note:        payload.Note,
		BankDetails: payload.BankDetails,
		ResolvedBy:  user.UserID,
	})
	if err != nil {
		h.failFromError(w, r, err, "exception_resolve_failed", "failed to resolve exception")
		return
	}

	if err := audit.New(h.DB).Record(r.Context(), user.UserID, "payroll.exception.resolve", "payroll_exception", exceptionID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"note": payload.Note, "bankUpdated": payload.BankDetails != nil}); err != nil {
		log.Printf("audit payroll.exception.resolve failed: %v", err)
	}
	api.Success(w, detail, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAdjustments(w http.ResponseWriter, r *http.Request) {
	adjustments, err := h.Service.ListAdjustments(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		h.failFromError(w, r, err, "adjustment_list_failed", "failed to list adjustments")
		return
	}
	api.Success(w, adjustments, middleware.GetRequestID(r.Context()))
}

type adjustmentPayload struct {
	EmployeeID string `json:"employeeId"`
	Kind       string `json:"kind"`
	Amount     string `json:"amount"`
	Reason     string `json:"reason"`
}

func (h *Handler) handleCreateAdjustment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload adjustmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	v.Required("reason", payload.Reason, "a reason is required")
	v.Enum("kind", payload.Kind, []string{payroll.AdjustmentBonus, payroll.AdjustmentDeduction, payroll.AdjustmentBenefit}, "kind must be bonus, deduction, or benefit")
	amount, _ := v.Amount("amount", payload.Amount)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	runID := chi.URLParam(r, "runID")
	detail, err := h.Service.CreateAdjustment(r.Context(), runID, payroll.AdjustmentInput{
		EmployeeID: payload.EmployeeID,
		Kind:       strings.ToLower(payload.Kind),
		Amount:     amount,
		Reason:     payload.Reason,
		CreatedBy:  user.UserID,
	})
	if err != nil {
		h.failFromError(w, r, err, "adjustment_create_failed", "failed to create adjustment")
		return
	}

	if err := audit.New(h.DB).Record(r.Context(), user.UserID, "payroll.adjustment.create", "payroll_run", runID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		log.Printf("audit payroll.adjustment.create failed: %v", err)
	}
	api.Created(w, detail, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPayslips(w http.ResponseWriter, r *http.Request) {
	payslips, err := h.Service.ListPayslips(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		h.failFromError(w, r, err, "payslip_list_failed", "failed to list payslips")
		return
	}
	api.Success(w, payslips, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	run, err := h.Service.GetRun(r.Context(), runID)
	if err != nil {
		h.failFromError(w, r, err, "payslip_download_failed", "failed to load payroll run")
		return
	}
	slip, err := h.Service.GetPayslip(r.Context(), runID, chi.URLParam(r, "employeeID"))
	if err != nil {
		h.failFromError(w, r, err, "payslip_download_failed", "failed to load payslip")
		return
	}

	pdfBytes, err := payroll.RenderPayslipPDF(run, slip)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_download_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
		return
	}

	h.archivePayslip(run, slip, pdfBytes)

	filename := fmt.Sprintf("payslip-%s-%s.pdf", run.RunID, slip.EmployeeID)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := w.Write(pdfBytes); err != nil {
		log.Printf("write payslip pdf failed: %v", err)
	}
}

// archivePayslip keeps an encrypted copy on disk when an encryption key is
// configured. Best effort: a failed archive never blocks the download.
func (h *Handler) archivePayslip(run payroll.Run, slip payroll.Payslip, pdfBytes []byte) {
	if h.PayslipDir == "" || h.Crypto == nil || !h.Crypto.Configured() {
		return
	}
	encrypted, err := h.Crypto.Encrypt(pdfBytes)
	if err != nil {
		log.Printf("encrypt payslip archive failed: %v", err)
		return
	}
	dir := filepath.Join(h.PayslipDir, run.RunID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.Printf("create payslip archive dir failed: %v", err)
		return
	}
	path := filepath.Join(dir, slip.EmployeeID+".pdf.enc")
	if err := os.WriteFile(path, encrypted, 0o640); err != nil {
		log.Printf("write payslip archive failed: %v", err)
	}
}

func (h *Handler) handleExportRegister(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	draft, err := h.Service.GetRunDraft(r.Context(), runID)
	if err != nil {
		h.failFromError(w, r, err, "register_export_failed", "failed to export register")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="register-`+draft.Run.RunID+`.csv"`)

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"employee_number", "employee_name", "department", "gross", "tax", "penalties", "deductions", "net", "bank_status"})
	for _, entry := range draft.Employees {
		d := entry.Detail
		_ = writer.Write([]string{
			d.EmployeeNumber,
			d.EmployeeName,
			d.Department,
			d.GrossSalary.StringFixed(2),
			d.TaxAmount.StringFixed(2),
			d.PenaltyTotal.StringFixed(2),
			d.DeductionsTotal.StringFixed(2),
			d.NetPay.StringFixed(2),
			d.BankStatus,
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Printf("write register csv failed: %v", err)
	}
}

// failFromError maps domain errors onto the response envelope. Gate refusals
// carry their violation lists so the operator can jump straight to the cause.
func (h *Handler) failFromError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	reqID := middleware.GetRequestID(r.Context())

	var gateErr *payroll.GateError
	if errors.As(err, &gateErr) {
		status := http.StatusConflict
		errCode := "publish_blocked"
		if !gateErr.HardBlocked() {
			errCode = "publish_needs_confirmation"
		}
		api.FailWithDetails(w, status, errCode, gateErr.Error(), gateErr, reqID)
		return
	}

	var trErr *payroll.TransitionError
	switch {
	case errors.As(err, &trErr):
		api.Fail(w, http.StatusConflict, "invalid_transition", trErr.Error(), reqID)
	case errors.Is(err, payroll.ErrRunNotFound),
		errors.Is(err, payroll.ErrDetailNotFound),
		errors.Is(err, payroll.ErrExceptionNotFound),
		errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, payroll.ErrRunFrozen),
		errors.Is(err, payroll.ErrRunConflict):
		api.Fail(w, http.StatusConflict, "run_conflict", err.Error(), reqID)
	case errors.Is(err, payroll.ErrSelfApproval):
		api.Fail(w, http.StatusForbidden, "self_approval", err.Error(), reqID)
	case errors.Is(err, payroll.ErrMissingReason),
		errors.Is(err, payroll.ErrInvalidAmount),
		errors.Is(err, payroll.ErrEmptyRoster):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), reqID)
	case errors.Is(err, payconfig.ErrNoActiveTaxRule),
		errors.Is(err, payconfig.ErrMultipleActiveTaxRules):
		api.Fail(w, http.StatusUnprocessableEntity, "tax_configuration_error", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}
