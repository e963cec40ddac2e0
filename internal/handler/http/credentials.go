package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/internal/utils"
	"github.com/veridia/paycore/models"
)

// upsertCredentialRequest is the body of POST /api/credentials.
type upsertCredentialRequest struct {
	CredentialType string                 `json:"credentialType"`
	CredentialData models.CipheredPayload `json:"credentialData"`
}

// upsertCredential stores (or replaces) the caller's credential of the
// given type. The response echoes the stored record with the payload
// masked: secrets go in, they do not come back out.
func (h *Handler) upsertCredential(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req upsertCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.upsertCredential").Msg("invalid JSON was passed")
		utils.WriteJSON(w, errorResponse{Error: "invalid JSON body"}, http.StatusBadRequest)
		return
	}

	_, err := h.services.CredentialService.Upsert(r.Context(), userID, req.CredentialType, req.CredentialData)
	if err != nil {
		log.Err(err).
			Str("func", "*Handler.upsertCredential").
			Str("user_id", userID).
			Str("credential_type", req.CredentialType).
			Msg("error upserting credential")
		utils.WriteJSON(w, errorResponse{Error: err.Error()}, statusFromError(err))
		return
	}

	masked, err := h.services.CredentialService.GetMasked(r.Context(), userID, req.CredentialType)
	if err != nil {
		utils.WriteJSON(w, errorResponse{Error: err.Error()}, statusFromError(err))
		return
	}

	utils.WriteJSON(w, masked, http.StatusCreated)
}

// getCredential answers with the masked view of the caller's credential.
// The decrypted payload is never served over HTTP; payment code paths use
// the narrow in-process accessor instead.
func (h *Handler) getCredential(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	userID, _ := utils.GetUserIDFromContext(r.Context())
	credentialType := chi.URLParam(r, "type")

	masked, err := h.services.CredentialService.GetMasked(r.Context(), userID, credentialType)
	if err != nil {
		log.Err(err).
			Str("func", "*Handler.getCredential").
			Str("user_id", userID).
			Str("credential_type", credentialType).
			Msg("error reading credential")
		utils.WriteJSON(w, errorResponse{Error: err.Error()}, statusFromError(err))
		return
	}

	utils.WriteJSON(w, masked, http.StatusOK)
}

// deleteCredentials soft-deletes all of the caller's active credentials.
// Deleting a user with nothing stored is a 404, not an error state.
func (h *Handler) deleteCredentials(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	userID, _ := utils.GetUserIDFromContext(r.Context())

	existed, err := h.services.CredentialService.Delete(r.Context(), userID)
	if err != nil {
		log.Err(err).
			Str("func", "*Handler.deleteCredentials").
			Str("user_id", userID).
			Msg("error deleting credentials")
		utils.WriteJSON(w, errorResponse{Error: err.Error()}, statusFromError(err))
		return
	}
	if !existed {
		utils.WriteJSON(w, errorResponse{Error: "no active credentials"}, http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
