package otp

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/udyam-mitra/udyam_mitra/internal/response"
	"github.com/udyam-mitra/udyam_mitra/internal/submission"
	"github.com/udyam-mitra/udyam_mitra/internal/validation"
)

// Handler exposes the OTP endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs an OTP HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type requestBody struct {
	AadhaarNumber string `json:"aadhaarNumber"`
	MobileNumber  string `json:"mobileNumber"`
}

type verifyBody struct {
	MobileNumber string `json:"mobileNumber"`
	OTP          string `json:"otp"`
	SubmissionID string `json:"submissionId"`
}

type requestData struct {
	Sent      bool `json:"sent"`
	ExpiresIn int  `json:"expiresIn"`
}

// Request issues and dispatches a fresh OTP.
func (h *Handler) Request(c *fiber.Ctx) error {
	var req requestBody
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	expiresIn, err := h.service.Request(c.UserContext(), req.AadhaarNumber, req.MobileNumber, meta(c))
	if err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			return response.ValidationFailed(c, fieldErrs)
		}
		h.logger.Error("otp request failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(response.Envelope{
			Success: false, Message: "Failed to send OTP",
		})
	}

	return response.OK(c, "OTP sent successfully", requestData{Sent: true, ExpiresIn: expiresIn})
}

// Verify checks a submitted OTP.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var req verifyBody
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.service.Verify(c.UserContext(), req.MobileNumber, req.OTP, req.SubmissionID, meta(c))
	if err != nil {
		var fieldErrs validation.Errors
		switch {
		case errors.As(err, &fieldErrs):
			return response.ValidationFailed(c, fieldErrs)
		case errors.Is(err, ErrInvalidOrExpired):
			return response.BadRequest(c, "Invalid or expired OTP")
		case errors.Is(err, submission.ErrNotFound):
			return response.NotFound(c, "No submission found for this verification")
		default:
			h.logger.Error("otp verification failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(response.Envelope{
				Success: false, Message: "Failed to verify OTP",
			})
		}
	}

	return response.OK(c, "OTP verified successfully", nil)
}

func meta(c *fiber.Ctx) Meta {
	ip := c.IP()
	if ip == "" {
		ip = "unknown"
	}
	ua := c.Get(fiber.HeaderUserAgent)
	if ua == "" {
		ua = "unknown"
	}
	return Meta{IPAddress: ip, UserAgent: ua}
}
