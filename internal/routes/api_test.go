package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/udyam-mitra/udyam_mitra/internal/config"
)

var otpLogPattern = regexp.MustCompile(`OTP is: ([0-9]{6})`)

func setupAPI(t *testing.T) (*fiber.App, *bytes.Buffer, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := config.Config{
		AppName:          "udyam-test",
		AppEnv:           "test",
		Port:             "0",
		OTPTTL:           10 * time.Minute,
		OTPRequestPerMin: 5,
		AllowedOrigin:    "http://localhost:3000",
	}

	app := fiber.New()
	if err := Setup(app, Deps{Cfg: cfg, Cache: cache, Logger: logger}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cleanup := func() {
		cache.Close()
		mr.Close()
	}
	return app, &logBuf, cleanup
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	// Error-handler responses (rate limiting) are plain text, not JSON.
	var decoded map[string]any
	if strings.Contains(resp.Header.Get(fiber.HeaderContentType), "json") {
		if err := json.Unmarshal(payload, &decoded); err != nil {
			t.Fatalf("invalid json %q: %v", payload, err)
		}
	}
	return resp.StatusCode, decoded
}

func TestRegistrationEndToEnd(t *testing.T) {
	app, logBuf, cleanup := setupAPI(t)
	defer cleanup()

	// Step 1: identity.
	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/submit", `{
        "step": 1,
        "data": {"aadhaarNumber": "123412341234", "mobileNumber": "9876543210", "otp": "123456"}
    }`)
	if status != fiber.StatusOK {
		t.Fatalf("step 1: expected 200, got %d (%v)", status, body)
	}
	data := body["data"].(map[string]any)
	submissionID, _ := data["submissionId"].(string)
	if submissionID == "" {
		t.Fatal("missing submission id")
	}

	// OTP side-channel.
	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/otp/request", `{
        "aadhaarNumber": "123412341234", "mobileNumber": "9876543210"
    }`)
	if status != fiber.StatusOK {
		t.Fatalf("otp request: expected 200, got %d (%v)", status, body)
	}
	otpData := body["data"].(map[string]any)
	if otpData["sent"] != true || otpData["expiresIn"] != float64(600) {
		t.Fatalf("unexpected otp response %v", otpData)
	}

	match := otpLogPattern.FindSubmatch(logBuf.Bytes())
	if match == nil {
		t.Fatalf("dispatched code not found in log: %s", logBuf.String())
	}
	code := string(match[1])

	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/otp/verify", fmt.Sprintf(`{
        "mobileNumber": "9876543210", "otp": %q
    }`, code))
	if status != fiber.StatusOK {
		t.Fatalf("otp verify: expected 200, got %d (%v)", status, body)
	}

	// Step 2: enterprise details.
	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/submit", `{
        "step": 2,
        "aadhaarNumber": "123412341234",
        "data": {
            "panNumber": "ABCDE1234F", "enterpriseName": "Sharma Traders",
            "enterpriseType": "proprietorship", "commencementDate": "2020-01-15",
            "address": "12 MG Road, Bengaluru", "pincode": "560001",
            "state": "karnataka", "district": "Bangalore Urban"
        }
    }`)
	if status != fiber.StatusOK {
		t.Fatalf("step 2: expected 200, got %d (%v)", status, body)
	}
	data = body["data"].(map[string]any)
	if data["isComplete"] != true || data["currentStep"] != float64(2) {
		t.Fatalf("expected completion, got %v", data)
	}

	// Final read by the stable identifier.
	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/submission/"+submissionID, "")
	if status != fiber.StatusOK {
		t.Fatalf("get: expected 200, got %d (%v)", status, body)
	}
	sub := body["data"].(map[string]any)
	if sub["isComplete"] != true || sub["currentStep"] != float64(2) || sub["otpVerified"] != true {
		t.Fatalf("unexpected final state %v", sub)
	}

	// Audit trail recorded the workflow.
	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/audit?resource=OTP_VERIFICATION", "")
	if status != fiber.StatusOK {
		t.Fatalf("audit: expected 200, got %d", status)
	}
	records, _ := body["data"].([]any)
	if len(records) < 2 {
		t.Fatalf("expected OTP request and verify audit records, got %v", body["data"])
	}
}

func TestVerifyReplayAndMissAreRejected(t *testing.T) {
	app, logBuf, cleanup := setupAPI(t)
	defer cleanup()

	doJSON(t, app, fiber.MethodPost, "/api/v1/otp/request", `{
        "aadhaarNumber": "123412341234", "mobileNumber": "9876543210"
    }`)
	match := otpLogPattern.FindSubmatch(logBuf.Bytes())
	if match == nil {
		t.Fatal("dispatched code not found in log")
	}
	code := string(match[1])

	// Scoping the verify to an unknown submission is reported and leaves the
	// challenge live.
	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/otp/verify",
		fmt.Sprintf(`{"mobileNumber": "9876543210", "otp": %q, "submissionId": "no-such-id"}`, code))
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown submission scope, got %d (%v)", status, body)
	}

	if status, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/otp/verify",
		fmt.Sprintf(`{"mobileNumber": "9876543210", "otp": %q}`, code)); status != fiber.StatusOK {
		t.Fatalf("expected verify to succeed, got %d", status)
	}
	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/otp/verify",
		fmt.Sprintf(`{"mobileNumber": "9876543210", "otp": %q}`, code))
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 on replay, got %d (%v)", status, body)
	}
	if msg, _ := body["message"].(string); msg != "Invalid or expired OTP" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestOTPRequestRateLimited(t *testing.T) {
	app, _, cleanup := setupAPI(t)
	defer cleanup()

	body := `{"aadhaarNumber": "123412341234", "mobileNumber": "9123456780"}`
	for i := 0; i < 5; i++ {
		if status, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/otp/request", body); status != fiber.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, status)
		}
	}
	if status, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/otp/request", body); status != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", status)
	}
}

func TestPincodeEndpoints(t *testing.T) {
	app, _, cleanup := setupAPI(t)
	defer cleanup()

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/pincode/110001", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	region := body["data"].(map[string]any)
	if region["state"] != "delhi" || region["district"] != "Central Delhi" {
		t.Fatalf("unexpected region %v", region)
	}

	if status, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/pincode/000000", ""); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown pincode, got %d", status)
	}
}

func TestSchemaAndHealth(t *testing.T) {
	app, _, cleanup := setupAPI(t)
	defer cleanup()

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/schema", "")
	if status != fiber.StatusOK {
		t.Fatalf("schema: expected 200, got %d", status)
	}
	schema := body["data"].(map[string]any)
	steps, _ := schema["steps"].([]any)
	if len(steps) != 2 {
		t.Fatalf("expected 2 schema steps, got %v", schema)
	}

	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/health", "")
	if status != fiber.StatusOK {
		t.Fatalf("health: expected 200, got %d", status)
	}
	health := body["data"].(map[string]any)
	if health["version"] != config.Version {
		t.Fatalf("unexpected health payload %v", health)
	}
}
