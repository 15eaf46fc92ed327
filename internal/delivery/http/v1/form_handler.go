package v1

import (
	"errors"
	"io"
	"net/http"

	"storeforms-backend/internal/domain"
	"storeforms-backend/internal/usecase"
	"storeforms-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type FormHandler struct {
	formUC *usecase.FormUsecase
}

func NewFormHandler(uc *usecase.FormUsecase) *FormHandler {
	return &FormHandler{formUC: uc}
}

func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return user, true
}

// writeFormError maps usecase errors onto the API error taxonomy. Every
// wizard/generator failure is recoverable; nothing here is a 5xx except
// genuinely unexpected errors.
func writeFormError(w http.ResponseWriter, err error) {
	if fields, ok := domain.AsFieldErrors(err); ok {
		utils.WriteFieldErrors(w, "validation failed", fields)
		return
	}
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrVariantNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		utils.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrSubmitInFlight):
		utils.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrDuplicateLabel),
		errors.Is(err, domain.ErrInsufficientSelection),
		errors.Is(err, domain.ErrUnknownStep),
		errors.Is(err, domain.ErrAtLastStep),
		errors.Is(err, domain.ErrJumpNotAllowed),
		errors.Is(err, domain.ErrNotAtFinalStep),
		errors.Is(err, domain.ErrUnknownAttributeSet):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// --- Session Lifecycle ---

type createCheckoutReq struct {
	VendorID string `json:"vendorId"`
}

func (h *FormHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req createCheckoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	sess := h.formUC.CreateCheckoutSession(user.ID, req.VendorID)
	utils.WriteJSON(w, http.StatusCreated, sess)
}

type createProductReq struct {
	Draft *domain.ProductDraft `json:"draft"`
}

func (h *FormHandler) CreateProductSession(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	sess := h.formUC.CreateProductSession(user.ID, req.Draft)
	utils.WriteJSON(w, http.StatusCreated, sess)
}

func (h *FormHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	sess, err := h.formUC.GetSession(r.PathValue("id"), user.ID)
	if err != nil {
		writeFormError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sess)
}

// --- Field Edits ---

func (h *FormHandler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess, err := h.formUC.UpdateFields(r.PathValue("id"), user.ID, raw)
	if err != nil {
		writeFormError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sess)
}

// --- Wizard Transitions ---

func (h *FormHandler) Advance(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	sess, err := h.formUC.Advance(r.PathValue("id"), user.ID)
	if err != nil {
		writeFormError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *FormHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	sess, err := h.formUC.Retreat(r.PathValue("id"), user.ID)
	if err != nil {
		writeFormError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sess)
}

type jumpReq struct {
	Step domain.Step `json:"step"`
}

func (h *FormHandler) JumpTo(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req jumpReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	sess, err := h.formUC.JumpTo(r.PathValue("id"), user.ID, req.Step)
	if err != nil {
		writeFormError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sess)
}

// --- Submission ---

func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	result, err := h.formUC.Submit(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		if fields, isFields := domain.AsFieldErrors(err); isFields {
			utils.WriteFieldErrors(w, "validation failed", fields)
			return
		}
		switch {
		case errors.Is(err, domain.ErrSessionNotFound),
			errors.Is(err, domain.ErrForbidden),
			errors.Is(err, domain.ErrSubmitInFlight),
			errors.Is(err, domain.ErrNotAtFinalStep):
			writeFormError(w, err)
		default:
			// Upstream service failure: state is preserved, retry is safe.
			utils.WriteError(w, http.StatusBadGateway, "submission failed, please retry")
		}
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
