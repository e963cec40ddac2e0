package http

import (
	"encoding/json"
	"net/http"

	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/internal/service"
	"github.com/veridia/paycore/internal/utils"
	"github.com/veridia/paycore/models"
)

// verifySettleRequest is the body of POST /verify and POST /settle.
type verifySettleRequest struct {
	PaymentPayload      *models.PaymentPayload      `json:"paymentPayload"`
	PaymentRequirements *models.PaymentRequirements `json:"paymentRequirements"`
}

// errorResponse is the JSON body of every non-2xx answer.
type errorResponse struct {
	Error string `json:"error"`
}

// decodeVerifySettle parses and structurally validates the shared
// verify/settle body. Missing parts are a 400: the facilitator answers
// logical failures with 200, but it cannot answer a question that was
// never asked.
func decodeVerifySettle(w http.ResponseWriter, r *http.Request) (verifySettleRequest, bool) {
	log := logger.FromRequest(r)

	var req verifySettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "decodeVerifySettle").Msg("invalid JSON was passed")
		utils.WriteJSON(w, errorResponse{Error: "invalid JSON body"}, http.StatusBadRequest)
		return verifySettleRequest{}, false
	}
	if req.PaymentPayload == nil || req.PaymentRequirements == nil {
		utils.WriteJSON(w, errorResponse{Error: "paymentPayload and paymentRequirements are required"}, http.StatusBadRequest)
		return verifySettleRequest{}, false
	}

	return req, true
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeVerifySettle(w, r)
	if !ok {
		return
	}

	result := h.facilitator.Verify(r.Context(), *req.PaymentPayload, *req.PaymentRequirements)
	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) settle(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeVerifySettle(w, r)
	if !ok {
		return
	}

	result := h.facilitator.Settle(r.Context(), *req.PaymentPayload, *req.PaymentRequirements)
	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// issueRequirements answers GET /api/requirements with the 402 challenge
// for the requested resource. Query params "resource" and "price" override
// the configured defaults.
func (h *Handler) issueRequirements(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	requirements, err := service.IssueRequirements(
		r.URL.Query().Get("resource"),
		r.URL.Query().Get("price"),
		h.payments,
	)
	if err != nil {
		log.Err(err).Str("func", "*Handler.issueRequirements").Msg("failed to issue requirements")
		utils.WriteJSON(w, errorResponse{Error: err.Error()}, statusFromError(err))
		return
	}

	utils.WriteJSON(w, requirements, http.StatusOK)
}

// executePayment runs the full payment pipeline for the authenticated
// user. A stage failure still answers with the partial result next to the
// error so the caller can see how far the money got.
func (h *Handler) executePayment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var requirements models.PaymentRequirements
	if err := json.NewDecoder(r.Body).Decode(&requirements); err != nil {
		log.Err(err).Str("func", "*Handler.executePayment").Msg("invalid JSON was passed")
		utils.WriteJSON(w, errorResponse{Error: "invalid JSON body"}, http.StatusBadRequest)
		return
	}

	result, err := h.services.PaymentService.Execute(r.Context(), userID, requirements)
	if err != nil {
		log.Err(err).
			Str("func", "*Handler.executePayment").
			Str("user_id", userID).
			Msg("payment pipeline failed")

		status := statusFromError(err)
		if partial, ok := service.PartialResult(err); ok {
			utils.WriteJSON(w, struct {
				Error string `json:"error"`
				models.PaymentResult
			}{Error: err.Error(), PaymentResult: partial}, status)
			return
		}
		utils.WriteJSON(w, errorResponse{Error: err.Error()}, status)
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}
