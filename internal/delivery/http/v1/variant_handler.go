package v1

import (
	"net/http"

	"storeforms-backend/internal/usecase"
	"storeforms-backend/pkg/utils"

	"github.com/goccy/go-json"
)

// VariantHandler exposes the variant matrix generator on product form
// sessions: attribute set curation, generation, per-row edits and removal.
type VariantHandler struct {
	formUC *usecase.FormUsecase
}

func NewVariantHandler(uc *usecase.FormUsecase) *VariantHandler {
	return &VariantHandler{formUC: uc}
}

type attributeReq struct {
	Set   string `json:"set"` // "colors" | "sizes"
	Label string `json:"label"`
}

func (h *VariantHandler) ToggleAttribute(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req attributeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	sess, err := h.formUC.ToggleAttribute(r.PathValue("id"), user.ID, req.Set, req.Label)
	if err != nil {
		writeFormError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *VariantHandler) AddCustomAttribute(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req attributeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	sess, err := h.formUC.AddCustomAttribute(r.PathValue("id"), user.ID, req.Set, req.Label)
	if err != nil {
		writeFormError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *VariantHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	sess, err := h.formUC.GenerateVariants(r.PathValue("id"), user.ID)
	if err != nil {
		writeFormError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *VariantHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	sess, err := h.formUC.RemoveVariant(r.PathValue("id"), user.ID, r.PathValue("variantId"))
	if err != nil {
		writeFormError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *VariantHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	sess, err := h.formUC.ClearVariants(r.PathValue("id"), user.ID)
	if err != nil {
		writeFormError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *VariantHandler) Override(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var patch usecase.VariantPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	sess, err := h.formUC.OverrideVariant(r.PathValue("id"), user.ID, r.PathValue("variantId"), &patch)
	if err != nil {
		writeFormError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sess)
}
