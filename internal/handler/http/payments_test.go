package http_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/veridia/paycore/internal/config"
	"github.com/veridia/paycore/internal/facilitator"
	handler "github.com/veridia/paycore/internal/handler/http"
	"github.com/veridia/paycore/internal/ledger"
	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/internal/mock"
	"github.com/veridia/paycore/internal/service"
	"github.com/veridia/paycore/models"
)

const (
	testTxID   = "0.0.1001@1700000000.42"
	testUserID = "user-42"
)

type handlerMocks struct {
	credentials *mock.MockCredentialService
	payments    *mock.MockPaymentService
	clients     *mock.MockClientFactory
	ledger      *mock.MockClient
}

func newTestRouter(t *testing.T, cfg config.Payments) (http.Handler, *handlerMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &handlerMocks{
		credentials: mock.NewMockCredentialService(ctrl),
		payments:    mock.NewMockPaymentService(ctrl),
		clients:     mock.NewMockClientFactory(ctrl),
		ledger:      mock.NewMockClient(ctrl),
	}

	facilitatorSvc := facilitator.NewService(m.clients, logger.Nop())
	services := &service.Services{
		CredentialService: m.credentials,
		PaymentService:    m.payments,
	}

	h := handler.NewHandler(facilitatorSvc, services, cfg, logger.Nop())
	return h.Init(), m
}

func defaultPayments() config.Payments {
	return config.Payments{
		Network:   "hedera-testnet",
		PayTo:     "0.0.2002",
		PriceHbar: "0.001",
		Resource:  "https://api.example.com/protected",
	}
}

func verifyBody(t *testing.T, payload models.PaymentPayload, requirements models.PaymentRequirements) string {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"paymentPayload":      payload,
		"paymentRequirements": requirements,
	})
	require.NoError(t, err)
	return string(body)
}

func protocolPayload() models.PaymentPayload {
	return models.PaymentPayload{
		Network:   models.NetworkTestnet,
		AccountID: "0.0.1001",
		Amount:    "100000",
		Nonce:     "nonce-1",
		SessionID: "session-1",
		Metadata:  models.PaymentMetadata{TransactionID: testTxID},
		Signature: "deadbeef",
	}
}

func protocolRequirements() models.PaymentRequirements {
	return models.PaymentRequirements{
		Scheme:            models.SchemeExact,
		Network:           models.NetworkTestnet,
		MaxAmountRequired: "100000",
		Resource:          "https://api.example.com/protected",
		PayTo:             "0.0.2002",
		MaxTimeoutSeconds: 60,
	}
}

func TestVerifyEndpoint_Valid(t *testing.T) {
	router, m := newTestRouter(t, defaultPayments())

	m.clients.EXPECT().NewReadOnly(models.NetworkTestnet).Return(m.ledger, nil)
	m.ledger.EXPECT().QueryReceipt(gomock.Any(), testTxID).
		Return(ledger.Receipt{TransactionID: testTxID, Status: "SUCCESS"}, nil)
	m.ledger.EXPECT().Close()

	req := httptest.NewRequest(http.MethodPost, "/verify",
		strings.NewReader(verifyBody(t, protocolPayload(), protocolRequirements())))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.VerificationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Valid)
	assert.Equal(t, testTxID, result.TransactionID)
	require.NotNil(t, result.Proof)
	assert.Equal(t, "SUCCESS", result.Proof.Status)

	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestVerifyEndpoint_LogicalRejectionIsStill200(t *testing.T) {
	router, _ := newTestRouter(t, defaultPayments())

	// mismatched networks never reach the ledger: no factory expectations
	payload := protocolPayload()
	payload.Network = models.NetworkMainnet

	req := httptest.NewRequest(http.MethodPost, "/verify",
		strings.NewReader(verifyBody(t, payload, protocolRequirements())))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.VerificationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "network mismatch")
}

func TestVerifyEndpoint_MalformedJSON(t *testing.T) {
	router, _ := newTestRouter(t, defaultPayments())

	req := httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON body")
}

func TestVerifyEndpoint_MissingParts(t *testing.T) {
	router, _ := newTestRouter(t, defaultPayments())

	body, err := json.Marshal(map[string]any{"paymentPayload": protocolPayload()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "paymentRequirements")
}

func TestSettleEndpoint(t *testing.T) {
	router, m := newTestRouter(t, defaultPayments())

	m.clients.EXPECT().NewReadOnly(models.NetworkTestnet).Return(m.ledger, nil)
	m.ledger.EXPECT().QueryReceipt(gomock.Any(), testTxID).
		Return(ledger.Receipt{TransactionID: testTxID, Status: "SUCCESS"}, nil)
	m.ledger.EXPECT().Close()

	req := httptest.NewRequest(http.MethodPost, "/settle",
		strings.NewReader(verifyBody(t, protocolPayload(), protocolRequirements())))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.SettlementResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, testTxID, result.TransactionID)
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t, defaultPayments())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestIssueRequirements(t *testing.T) {
	router, _ := newTestRouter(t, defaultPayments())

	req := httptest.NewRequest(http.MethodGet, "/api/requirements", nil)
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var requirements models.PaymentRequirements
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &requirements))
	assert.Equal(t, models.SchemeExact, requirements.Scheme)
	assert.Equal(t, models.NetworkTestnet, requirements.Network)
	assert.Equal(t, "100000", requirements.MaxAmountRequired)
	assert.Equal(t, "0.0.2002", requirements.PayTo)
	assert.Equal(t, 60, requirements.MaxTimeoutSeconds)
}

func TestIssueRequirements_QueryOverrides(t *testing.T) {
	router, _ := newTestRouter(t, defaultPayments())

	req := httptest.NewRequest(http.MethodGet, "/api/requirements?resource=https://api.example.com/other&price=2", nil)
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var requirements models.PaymentRequirements
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &requirements))
	assert.Equal(t, "https://api.example.com/other", requirements.Resource)
	assert.Equal(t, "200000000", requirements.MaxAmountRequired)
}

func TestIssueRequirements_BadPrice(t *testing.T) {
	router, _ := newTestRouter(t, defaultPayments())

	req := httptest.NewRequest(http.MethodGet, "/api/requirements?price=free", nil)
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecutePayment_Success(t *testing.T) {
	router, m := newTestRouter(t, defaultPayments())

	requirements := protocolRequirements()
	result := models.PaymentResult{
		Transfer:     &models.TransferResult{TransactionID: testTxID, Status: "SUCCESS", AmountTinybar: 100000},
		Verification: &models.VerificationResult{Valid: true, TransactionID: testTxID, Status: "SUCCESS"},
		Settlement:   &models.SettlementResult{Success: true, TransactionID: testTxID, Status: "SUCCESS"},
	}
	m.payments.EXPECT().Execute(gomock.Any(), testUserID, requirements).Return(result, nil)

	body, err := json.Marshal(requirements)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(string(body)))
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.PaymentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Settlement)
	assert.True(t, got.Settlement.Success)
}

func TestExecutePayment_StageFailureCarriesPartialResult(t *testing.T) {
	router, m := newTestRouter(t, defaultPayments())

	requirements := protocolRequirements()
	partial := models.PaymentResult{
		Transfer:     &models.TransferResult{TransactionID: testTxID, Status: "SUCCESS", AmountTinybar: 100000},
		Verification: &models.VerificationResult{Valid: false, TransactionID: testTxID, Error: "transaction status \"FAILED\" is not SUCCESS"},
	}
	stageErr := &service.StageError{
		Stage:  "verification",
		Result: partial,
		Err:    fmt.Errorf("%w: payment claim rejected", service.ErrVerificationStage),
	}
	m.payments.EXPECT().Execute(gomock.Any(), testUserID, requirements).
		Return(models.PaymentResult{}, stageErr)

	body, err := json.Marshal(requirements)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(string(body)))
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var got struct {
		Error string `json:"error"`
		models.PaymentResult
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got.Error, "verification")
	require.NotNil(t, got.Transfer)
	assert.Equal(t, testTxID, got.Transfer.TransactionID)
	assert.Nil(t, got.Settlement)
}

func TestExecutePayment_InsufficientBalanceAnswers402(t *testing.T) {
	router, m := newTestRouter(t, defaultPayments())

	requirements := protocolRequirements()
	stageErr := &service.StageError{
		Stage: "transfer",
		Err: fmt.Errorf("%w: %w", service.ErrTransferStage,
			errors.Join(ledger.ErrTransferFailed, ledger.ErrInsufficientBalance)),
	}
	m.payments.EXPECT().Execute(gomock.Any(), testUserID, requirements).
		Return(models.PaymentResult{}, stageErr)

	body, err := json.Marshal(requirements)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(string(body)))
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestExecutePayment_MalformedJSON(t *testing.T) {
	router, _ := newTestRouter(t, defaultPayments())

	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader("{nope"))
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecutePayment_MissingUserHeader(t *testing.T) {
	router, _ := newTestRouter(t, defaultPayments())

	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader("{}"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
