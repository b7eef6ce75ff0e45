package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hadirly/hadirly-backend-go/internal/domain/otp"
	"github.com/hadirly/hadirly-backend-go/internal/handler/http/response"
)

type OTPHandler interface {
	Issue(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Resend(w http.ResponseWriter, r *http.Request)
}

type OTPHandlerImpl struct {
	otpService otp.OTPService
}

func NewOTPHandler(otpService otp.OTPService) OTPHandler {
	return &OTPHandlerImpl{otpService: otpService}
}

// Issue implements OTPHandler.
func (o *OTPHandlerImpl) Issue(w http.ResponseWriter, r *http.Request) {
	var req otp.IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Issue decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := o.otpService.Issue(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Verification code issued", result)
}

// Submit implements OTPHandler.
func (o *OTPHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req otp.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := o.otpService.Verify(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Verification successful", result)
}

// Resend implements OTPHandler. Issuing while the previous challenge is
// still live is refused by the service, so resend is just a fresh issue.
func (o *OTPHandlerImpl) Resend(w http.ResponseWriter, r *http.Request) {
	var req otp.IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Resend decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := o.otpService.Issue(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Verification code re-issued", result)
}
