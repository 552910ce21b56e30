package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chronotrack/attendance-backend-go/internal/domain/attendance"
	"github.com/chronotrack/attendance-backend-go/internal/handler/http/middleware"
	"github.com/chronotrack/attendance-backend-go/internal/handler/http/response"
	"github.com/chronotrack/attendance-backend-go/internal/pkg/validator"
	qrpasssvc "github.com/chronotrack/attendance-backend-go/internal/service/qrpass"
)

type QRPassHandler interface {
	Issue(w http.ResponseWriter, r *http.Request)
	Image(w http.ResponseWriter, r *http.Request)
	Redeem(w http.ResponseWriter, r *http.Request)
}

type qrPassHandlerImpl struct {
	passService *qrpasssvc.Service
}

func NewQRPassHandler(passService *qrpasssvc.Service) QRPassHandler {
	return &qrPassHandlerImpl{passService: passService}
}

type issuePassRequest struct {
	LocationID string `json:"location_id"`
	Date       string `json:"date"`
}

// Issue implements QRPassHandler.
func (h *qrPassHandlerImpl) Issue(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var req issuePassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	var errs validator.ValidationErrors
	if validator.IsEmpty(req.LocationID) {
		errs = append(errs, validator.ValidationError{Field: "location_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(req.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be formatted as YYYY-MM-DD"})
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	pass, err := h.passService.Issue(r.Context(), identity.OrgID, req.LocationID, req.Date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "QR pass issued", map[string]interface{}{
		"id":          pass.ID,
		"code":        pass.Code,
		"location_id": pass.LocationID,
		"date":        pass.Date,
		"expires_at":  pass.ExpiresAt,
	})
}

// Image implements QRPassHandler, serving the pass as a PNG.
func (h *qrPassHandlerImpl) Image(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	png, err := h.passService.Image(r.Context(), chi.URLParam(r, "id"), identity.OrgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

type redeemPassRequest struct {
	Code   string `json:"code"`
	Action string `json:"action"`
}

// Redeem implements QRPassHandler. The redeeming employee comes from the
// token; the location comes from the pass.
func (h *qrPassHandlerImpl) Redeem(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	var req redeemPassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if validator.IsEmpty(req.Code) {
		response.HandleError(w, validator.ValidationErrors{
			{Field: "code", Message: "is required"},
		})
		return
	}

	action := attendance.Action(req.Action)
	if req.Action == "" {
		action = attendance.ActionCheckIn
	}

	rec, err := h.passService.Redeem(r.Context(), req.Code, identity.EmployeeID, identity.OrgID, action)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toRecordResponse(rec))
}
