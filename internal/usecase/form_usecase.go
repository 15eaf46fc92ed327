package usecase

import (
	"context"
	"fmt"
	"time"

	"storeforms-backend/internal/domain"
	"storeforms-backend/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FormUsecase owns the lifecycle of form sessions: creation, field edits,
// wizard transitions, variant matrix operations and final submission. Every
// mutation runs under the session's lock so concurrent requests against the
// same form are serialized.
type FormUsecase struct {
	store    domain.SessionStore
	wizard   *WizardUsecase
	variants *VariantUsecase
	orders   domain.OrderService
	products domain.ProductService
}

func NewFormUsecase(
	store domain.SessionStore,
	wizard *WizardUsecase,
	variants *VariantUsecase,
	orders domain.OrderService,
	products domain.ProductService,
) *FormUsecase {
	return &FormUsecase{
		store:    store,
		wizard:   wizard,
		variants: variants,
		orders:   orders,
		products: products,
	}
}

// --- Session Lifecycle ---

func (u *FormUsecase) CreateCheckoutSession(userID, vendorID string) *domain.FormSession {
	sess := &domain.FormSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      domain.SessionKindCheckout,
		Step:      domain.CheckoutFlow[0],
		Checkout:  &domain.CheckoutDraft{VendorID: vendorID},
		CreatedAt: time.Now(),
	}
	u.store.Put(sess)
	return sess.Clone()
}

// CreateProductSession starts a product editor session. seed is non-nil
// when editing an existing product; its values prefill every step.
func (u *FormUsecase) CreateProductSession(userID string, seed *domain.ProductDraft) *domain.FormSession {
	draft := &domain.ProductDraft{}
	if seed != nil {
		draft = seed
	}
	sess := &domain.FormSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      domain.SessionKindProduct,
		Step:      domain.ProductFlow[0],
		Product:   draft,
		CreatedAt: time.Now(),
	}
	u.store.Put(sess)
	return sess.Clone()
}

// GetSession returns a snapshot of the session, deep-copied under the
// lock so callers can read and encode it while other requests mutate
// the live session.
func (u *FormUsecase) GetSession(id, userID string) (*domain.FormSession, error) {
	unlock := u.store.Lock(id)
	defer unlock()

	sess, err := u.store.Get(id)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return sess.Clone(), nil
}

// withSession runs one mutation under the session lock and returns a
// snapshot of the result. Mutations are rejected while a submission is
// in flight; the session is stored back only when fn succeeds.
func (u *FormUsecase) withSession(id, userID string, fn func(sess *domain.FormSession) error) (*domain.FormSession, error) {
	unlock := u.store.Lock(id)
	defer unlock()

	sess, err := u.store.Get(id)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if sess.Submitting {
		return nil, domain.ErrSubmitInFlight
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	u.store.Put(sess)
	return sess.Clone(), nil
}

// --- Field Edits ---

// UpdateFields merges raw JSON field values into the field group bound to
// the session's current step. The merge is atomic: a decode failure
// leaves the group exactly as it was. Values are not validated here;
// validation happens when the wizard advances.
func (u *FormUsecase) UpdateFields(id, userID string, raw []byte) (*domain.FormSession, error) {
	return u.withSession(id, userID, func(sess *domain.FormSession) error {
		return mergeFields(sess, raw)
	})
}

// mergeGroup decodes raw into a scratch copy of the group and assigns it
// back only when decoding succeeds.
func mergeGroup[T any](dst *T, raw []byte) error {
	tmp := *dst
	if err := json.Unmarshal(raw, &tmp); err != nil {
		return fmt.Errorf("invalid field values: %w", err)
	}
	*dst = tmp
	return nil
}

func mergeFields(sess *domain.FormSession, raw []byte) error {
	switch sess.Step {
	case domain.StepShipping:
		return mergeGroup(&sess.Checkout.Shipping, raw)
	case domain.StepPayment:
		return mergeGroup(&sess.Checkout.Payment, raw)
	case domain.StepBasic:
		return mergeGroup(&sess.Product.Basic, raw)
	case domain.StepPricing:
		return mergeGroup(&sess.Product.Pricing, raw)
	case domain.StepInventory:
		return mergeGroup(&sess.Product.Inventory, raw)
	case domain.StepCategory:
		return mergeGroup(&sess.Product.Category, raw)
	case domain.StepMedia:
		// Detach the slice so a failed decode cannot scribble on the
		// stored group's backing array.
		tmp := sess.Product.Media
		tmp.Images = append([]string(nil), tmp.Images...)
		if err := json.Unmarshal(raw, &tmp); err != nil {
			return fmt.Errorf("invalid field values: %w", err)
		}
		sess.Product.Media = tmp
		return nil
	case domain.StepVariants:
		// Attribute sets and generated rows change only through their
		// dedicated operations; the field merge covers the flag alone.
		var patch struct {
			HasVariants *bool `json:"hasVariants"`
		}
		if err := json.Unmarshal(raw, &patch); err != nil {
			return fmt.Errorf("invalid field values: %w", err)
		}
		if patch.HasVariants != nil {
			sess.Product.Variant.HasVariants = *patch.HasVariants
		}
		return nil
	}
	return domain.ErrUnknownStep
}

// --- Wizard Transitions ---

func (u *FormUsecase) Advance(id, userID string) (*domain.FormSession, error) {
	return u.withSession(id, userID, func(sess *domain.FormSession) error {
		return u.wizard.Advance(sess)
	})
}

func (u *FormUsecase) Retreat(id, userID string) (*domain.FormSession, error) {
	return u.withSession(id, userID, func(sess *domain.FormSession) error {
		return u.wizard.Retreat(sess)
	})
}

func (u *FormUsecase) JumpTo(id, userID string, target domain.Step) (*domain.FormSession, error) {
	return u.withSession(id, userID, func(sess *domain.FormSession) error {
		return u.wizard.JumpTo(sess, target)
	})
}

// --- Variant Matrix Operations (product sessions only) ---

func (u *FormUsecase) attributeSet(sess *domain.FormSession, name string) (*domain.AttributeSet, error) {
	if sess.Kind != domain.SessionKindProduct {
		return nil, domain.ErrUnknownAttributeSet
	}
	switch name {
	case domain.AttributeSetColors:
		return &sess.Product.Variant.Colors, nil
	case domain.AttributeSetSizes:
		return &sess.Product.Variant.Sizes, nil
	}
	return nil, domain.ErrUnknownAttributeSet
}

func (u *FormUsecase) ToggleAttribute(id, userID, set, label string) (*domain.FormSession, error) {
	return u.withSession(id, userID, func(sess *domain.FormSession) error {
		s, err := u.attributeSet(sess, set)
		if err != nil {
			return err
		}
		s.Toggle(label)
		return nil
	})
}

func (u *FormUsecase) AddCustomAttribute(id, userID, set, label string) (*domain.FormSession, error) {
	return u.withSession(id, userID, func(sess *domain.FormSession) error {
		s, err := u.attributeSet(sess, set)
		if err != nil {
			return err
		}
		return s.Add(label)
	})
}

// GenerateVariants replaces the generated collection in full with the
// cartesian product of the current color and size sets. Stale rows from a
// previous selection never survive regeneration; prior rows are also kept
// untouched when generation fails.
func (u *FormUsecase) GenerateVariants(id, userID string) (*domain.FormSession, error) {
	return u.withSession(id, userID, func(sess *domain.FormSession) error {
		if sess.Kind != domain.SessionKindProduct {
			return domain.ErrUnknownStep
		}
		vf := &sess.Product.Variant
		rows, err := u.variants.Generate(vf.Colors, vf.Sizes, sess.Product)
		if err != nil {
			return err
		}
		vf.Variants = rows
		vf.HasVariants = true
		return nil
	})
}

func (u *FormUsecase) RemoveVariant(id, userID, variantID string) (*domain.FormSession, error) {
	return u.withSession(id, userID, func(sess *domain.FormSession) error {
		if sess.Kind != domain.SessionKindProduct {
			return domain.ErrUnknownStep
		}
		vf := &sess.Product.Variant
		vf.Variants, _ = u.variants.Remove(vf.Variants, variantID)
		return nil
	})
}

func (u *FormUsecase) ClearVariants(id, userID string) (*domain.FormSession, error) {
	return u.withSession(id, userID, func(sess *domain.FormSession) error {
		if sess.Kind != domain.SessionKindProduct {
			return domain.ErrUnknownStep
		}
		sess.Product.Variant.Variants = nil
		return nil
	})
}

// VariantPatch carries explicit per-row overrides applied after generation.
type VariantPatch struct {
	SellingPrice  *decimal.Decimal `json:"sellingPrice"`
	MRP           *decimal.Decimal `json:"mrp"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice"`
	GSTPercent    *int             `json:"gstPercent"`
	Quantity      *int             `json:"quantity"`
	Images        []string         `json:"images"`
}

func (p *VariantPatch) validate() error {
	fields := domain.FieldErrors{}
	for name, d := range map[string]*decimal.Decimal{
		"sellingPrice":  p.SellingPrice,
		"mrp":           p.MRP,
		"purchasePrice": p.PurchasePrice,
	} {
		if d != nil && d.IsNegative() {
			fields[name] = "must be greater than or equal to 0"
		}
	}
	if p.GSTPercent != nil && (*p.GSTPercent < 0 || *p.GSTPercent > 100) {
		fields["gstPercent"] = "must be between 0 and 100"
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		fields["quantity"] = "must be greater than or equal to 0"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

// OverrideVariant applies explicit edits to one generated row. Overrides
// do not survive regeneration: Generate replaces the collection in full.
func (u *FormUsecase) OverrideVariant(id, userID, variantID string, patch *VariantPatch) (*domain.FormSession, error) {
	return u.withSession(id, userID, func(sess *domain.FormSession) error {
		if sess.Kind != domain.SessionKindProduct {
			return domain.ErrUnknownStep
		}
		if err := patch.validate(); err != nil {
			return err
		}
		vf := &sess.Product.Variant
		for i := range vf.Variants {
			if vf.Variants[i].ID != variantID {
				continue
			}
			v := &vf.Variants[i]
			if patch.SellingPrice != nil {
				v.SellingPrice = *patch.SellingPrice
			}
			if patch.MRP != nil {
				v.MRP = *patch.MRP
			}
			if patch.PurchasePrice != nil {
				v.PurchasePrice = *patch.PurchasePrice
			}
			if patch.GSTPercent != nil {
				v.GSTPercent = *patch.GSTPercent
			}
			if patch.Quantity != nil {
				v.Quantity = *patch.Quantity
			}
			if patch.Images != nil {
				v.Images = patch.Images
			}
			return nil
		}
		return domain.ErrVariantNotFound
	})
}

// --- Submission ---

// SubmitResult is the upstream acknowledgement; exactly one field is set,
// matching the session kind.
type SubmitResult struct {
	Order   *domain.OrderResult   `json:"order,omitempty"`
	Product *domain.ProductResult `json:"product,omitempty"`
}

// Submit packages the session into one outbound payload and pushes it to
// the order or product service. The session is frozen while the request is
// in flight: mutations fail with ErrSubmitInFlight. On success the session
// is discarded; on failure all in-memory state is preserved for retry.
func (u *FormUsecase) Submit(ctx context.Context, id, userID string) (*SubmitResult, error) {
	unlock := u.store.Lock(id)
	sess, err := u.store.Get(id)
	if err != nil {
		unlock()
		return nil, err
	}
	if sess.UserID != userID {
		unlock()
		return nil, domain.ErrForbidden
	}
	if sess.Submitting {
		unlock()
		return nil, domain.ErrSubmitInFlight
	}
	if !sess.LastStep() {
		unlock()
		return nil, domain.ErrNotAtFinalStep
	}
	// Re-validate every step; retreat and jump allow edits after a step
	// was first validated.
	for _, st := range sess.Flow() {
		if err := u.wizard.ValidateStep(sess, st); err != nil {
			unlock()
			return nil, err
		}
	}
	sess.Submitting = true
	u.store.Put(sess)
	unlock()

	var result SubmitResult
	var subErr error
	switch sess.Kind {
	case domain.SessionKindCheckout:
		result.Order, subErr = u.orders.PlaceOrder(ctx, buildOrderPayload(sess.Checkout))
	case domain.SessionKindProduct:
		payload := buildProductPayload(sess.Product)
		if sess.Product.ProductID != "" {
			result.Product, subErr = u.products.UpdateProduct(ctx, sess.Product.ProductID, payload)
		} else {
			result.Product, subErr = u.products.CreateProduct(ctx, payload)
		}
	default:
		subErr = fmt.Errorf("unknown session kind %q", sess.Kind)
	}

	unlock = u.store.Lock(id)
	defer unlock()
	if subErr != nil {
		logger.Error().Err(subErr).Str("session_id", id).Str("kind", sess.Kind).Msg("Usecase: submit failed, state preserved for retry")
		sess.Submitting = false
		u.store.Put(sess)
		return nil, subErr
	}

	logger.Info().Str("session_id", id).Str("kind", sess.Kind).Msg("Usecase: submit succeeded")
	u.store.Delete(id)
	return &result, nil
}

func buildOrderPayload(draft *domain.CheckoutDraft) *domain.OrderPayload {
	return &domain.OrderPayload{
		VendorID:      draft.VendorID,
		Shipping:      draft.Shipping,
		PaymentMethod: draft.Payment.Method,
		Notes:         draft.Payment.Notes,
	}
}

func buildProductPayload(draft *domain.ProductDraft) *domain.ProductPayload {
	return &domain.ProductPayload{
		Name:          draft.Basic.Name,
		SKU:           draft.Basic.SKU,
		Description:   draft.Basic.Description,
		Brand:         draft.Basic.Brand,
		CategoryID:    draft.Category.CategoryID,
		SellingPrice:  draft.Pricing.SellingPrice,
		MRP:           draft.Pricing.MRP,
		PurchasePrice: draft.Pricing.PurchasePrice,
		GSTPercent:    draft.Pricing.GSTPercent,
		Quantity:      draft.Inventory.Quantity,
		Images:        draft.Media.Images,
		HasVariants:   draft.Variant.HasVariants,
		Variants:      draft.Variant.Variants,
	}
}
