package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/handlers"
	"github.com/SscSPs/bookkeeping_app/internal/platform/config"
	"github.com/SscSPs/bookkeeping_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

const testUserID = "7f7c3a52-2b1f-4c55-9d7c-3f4f2d1a9e10"

var errBackend = errors.New("database unavailable")

// handlerSuite wires every route against mocked services, behind the real
// AuthMiddleware.
type handlerSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret string

	mockAccountService    *MockAccountService
	mockLedgerService     *MockLedgerService
	mockInstrumentService *MockInstrumentService
	mockSettlementService *MockSettlementService
	mockCashService       *MockCashService
	mockReminderService   *MockReminderService
	mockNoteService       *MockNoteService
	mockReportingService  *MockReportingService
	mockExportService     *MockExportService
	mockUserService       *MockUserService
	mockTokenService      *MockTokenService
}

func (suite *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(dto.RegisterValidators())
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockAccountService = new(MockAccountService)
	suite.mockLedgerService = new(MockLedgerService)
	suite.mockInstrumentService = new(MockInstrumentService)
	suite.mockSettlementService = new(MockSettlementService)
	suite.mockCashService = new(MockCashService)
	suite.mockReminderService = new(MockReminderService)
	suite.mockNoteService = new(MockNoteService)
	suite.mockReportingService = new(MockReportingService)
	suite.mockExportService = new(MockExportService)
	suite.mockUserService = new(MockUserService)
	suite.mockTokenService = new(MockTokenService)

	cfg := &config.Config{
		JWTSecret:                  suite.jwtSecret,
		IsProduction:               true, // no swagger routes
		LoginRateLimit:             "5-M",
		ReminderUpcomingWindowDays: 7,
	}
	container := &portssvc.ServiceContainer{
		Account:      suite.mockAccountService,
		Ledger:       suite.mockLedgerService,
		Instrument:   suite.mockInstrumentService,
		Settlement:   suite.mockSettlementService,
		Cash:         suite.mockCashService,
		Reminder:     suite.mockReminderService,
		Note:         suite.mockNoteService,
		Reporting:    suite.mockReportingService,
		Export:       suite.mockExportService,
		User:         suite.mockUserService,
		TokenService: suite.mockTokenService,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container)
}

// generateTestToken creates a signed JWT for the given user.
func (suite *handlerSuite) generateTestToken(userID string) string {
	token, err := utils.GenerateJWT(userID, suite.jwtSecret, time.Hour, "bk-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

// request serves an authenticated request. body is JSON-encoded unless it is
// nil or already an io.Reader.
func (suite *handlerSuite) request(method, url string, body any) *httptest.ResponseRecorder {
	return suite.requestAs(testUserID, method, url, body)
}

func (suite *handlerSuite) requestAs(userID, method, url string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		raw, err := json.Marshal(b)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}
	req.Header.Set("Accept", "application/json")
	return suite.serve(req)
}

func (suite *handlerSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *handlerSuite) expiredToken() (string, error) {
	return utils.GenerateJWT(testUserID, suite.jwtSecret, -time.Minute, "bk-test")
}

func (suite *handlerSuite) decode(w *httptest.ResponseRecorder, out any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), "Failed to unmarshal response body")
}

func (suite *handlerSuite) errorMessage(w *httptest.ResponseRecorder) string {
	var body dto.ErrorResponse
	suite.decode(w, &body)
	return body.Error
}
