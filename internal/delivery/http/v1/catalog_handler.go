package v1

import (
	"net/http"
	"time"

	"storeforms-backend/internal/domain"
	"storeforms-backend/pkg/cache"
	"storeforms-backend/pkg/utils"
)

const categoryCacheKey = "catalog:categories"

// CatalogHandler proxies the upstream category list (cached) and saved
// addresses used to populate form dropdowns and prefill the shipping step.
type CatalogHandler struct {
	categories  domain.CategoryService
	addresses   domain.AddressService
	cache       cache.CacheService
	categoryTTL time.Duration
}

func NewCatalogHandler(categories domain.CategoryService, addresses domain.AddressService, c cache.CacheService, categoryTTL time.Duration) *CatalogHandler {
	return &CatalogHandler{
		categories:  categories,
		addresses:   addresses,
		cache:       c,
		categoryTTL: categoryTTL,
	}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.cache.Get(categoryCacheKey); found {
		utils.WriteJSON(w, http.StatusOK, cached)
		return
	}

	cats, err := h.categories.ListCategories(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusBadGateway, "failed to load categories")
		return
	}

	h.cache.Set(categoryCacheKey, cats, h.categoryTTL)
	utils.WriteJSON(w, http.StatusOK, cats)
}

// ListPaymentMethods returns the static set of payment methods offered on
// the checkout payment step.
func (h *CatalogHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, domain.PaymentMethods)
}

func (h *CatalogHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	// Saved addresses are keyed by the vendor identifier; default to the
	// authenticated user when the client does not pass one.
	vendorID := r.URL.Query().Get("vendorId")
	if vendorID == "" {
		vendorID = user.ID
	}

	addrs, err := h.addresses.ListAddresses(r.Context(), vendorID)
	if err != nil {
		utils.WriteError(w, http.StatusBadGateway, "failed to load addresses")
		return
	}
	utils.WriteJSON(w, http.StatusOK, addrs)
}
