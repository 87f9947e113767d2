package submission

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/udyam-mitra/udyam_mitra/internal/response"
	"github.com/udyam-mitra/udyam_mitra/internal/validation"
)

// Handler exposes the submission endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a submission HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type submitRequest struct {
	Step          int               `json:"step"`
	Data          map[string]string `json:"data"`
	AadhaarNumber string            `json:"aadhaarNumber"`
}

// Submit handles a step-1 or step-2 form submission.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	meta := requestMeta(c)

	var (
		summary Summary
		err     error
	)
	switch req.Step {
	case 1:
		summary, err = h.service.SubmitStep1(c.UserContext(), req.Data, meta)
	case 2:
		summary, err = h.service.SubmitStep2(c.UserContext(), req.AadhaarNumber, req.Data, meta)
	default:
		return response.ValidationFailed(c, map[string]string{"step": "Step must be 1 or 2"})
	}

	if err != nil {
		var fieldErrs validation.Errors
		switch {
		case errors.As(err, &fieldErrs):
			return response.ValidationFailed(c, fieldErrs)
		case errors.Is(err, ErrNotFound):
			return response.NotFound(c, "No submission found for this Aadhaar number")
		case errors.Is(err, ErrOTPNotVerified):
			return response.ValidationFailed(c, map[string]string{"otp": "Mobile number has not been OTP verified"})
		default:
			h.logger.Error("form submission failed", "step", req.Step, "error", err)
			return response.Internal(c)
		}
	}

	return response.OK(c, fmt.Sprintf("Step %d submitted successfully", req.Step), summary)
}

// Get returns a submission by its public identifier.
func (h *Handler) Get(c *fiber.Ctx) error {
	sub, err := h.service.Get(c.UserContext(), c.Params("submissionId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.NotFound(c, "Submission not found")
		}
		h.logger.Error("get submission failed", "error", err)
		return response.Internal(c)
	}
	return response.OK(c, "Submission retrieved successfully", sub)
}

func requestMeta(c *fiber.Ctx) RequestMeta {
	ip := c.IP()
	if ip == "" {
		ip = "unknown"
	}
	ua := c.Get(fiber.HeaderUserAgent)
	if ua == "" {
		ua = "unknown"
	}
	return RequestMeta{IPAddress: ip, UserAgent: ua}
}
