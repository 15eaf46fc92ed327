package usecase

import (
	"storeforms-backend/internal/domain"
	"storeforms-backend/pkg/validator"
)

// WizardUsecase drives the linear multi-step form state machine. Forward
// transitions are gated by field-group validation, backward transitions are
// unconditional, and direct jumps are only allowed backward from the
// terminal review step.
type WizardUsecase struct {
	validate validator.Validator
}

func NewWizardUsecase(v validator.Validator) *WizardUsecase {
	return &WizardUsecase{validate: v}
}

// Advance validates the field group bound to the current step and, on
// success, moves to the next step in the fixed order. Validation failure
// leaves the step unchanged and returns domain.FieldErrors. The terminal
// step never advances; submission is an explicit separate call.
func (u *WizardUsecase) Advance(sess *domain.FormSession) error {
	idx := sess.StepIndex()
	if idx < 0 {
		return domain.ErrUnknownStep
	}
	flow := sess.Flow()
	if idx == len(flow)-1 {
		return domain.ErrAtLastStep
	}
	if err := u.ValidateStep(sess, sess.Step); err != nil {
		return err
	}
	sess.Step = flow[idx+1]
	return nil
}

// Retreat moves one step back without validation. Already-entered field
// values are untouched. No-op on the first step.
func (u *WizardUsecase) Retreat(sess *domain.FormSession) error {
	idx := sess.StepIndex()
	if idx < 0 {
		return domain.ErrUnknownStep
	}
	if idx == 0 {
		return nil
	}
	sess.Step = sess.Flow()[idx-1]
	return nil
}

// JumpTo moves directly to an earlier step for in-place correction. It is
// only permitted from the terminal review step and never resets any
// already-entered values.
func (u *WizardUsecase) JumpTo(sess *domain.FormSession, target domain.Step) error {
	if !sess.LastStep() {
		return domain.ErrJumpNotAllowed
	}
	flow := sess.Flow()
	tidx := -1
	for i, st := range flow {
		if st == target {
			tidx = i
			break
		}
	}
	if tidx < 0 {
		return domain.ErrUnknownStep
	}
	if tidx == len(flow)-1 {
		return domain.ErrJumpNotAllowed
	}
	sess.Step = target
	return nil
}

// ValidateStep runs the validation bound to one step's field group.
// Steps without a bound group (review) always pass.
func (u *WizardUsecase) ValidateStep(sess *domain.FormSession, step domain.Step) error {
	group := fieldGroup(sess, step)
	if group == nil {
		return nil
	}
	if err := u.validate.Validate(group); err != nil {
		if msgs, ok := validator.Messages(err); ok {
			return domain.FieldErrors(msgs)
		}
		return err
	}

	// The variants step carries a structural rule the tag validator
	// cannot express: a variant-bearing product needs generated rows.
	if step == domain.StepVariants && sess.Product != nil {
		vf := sess.Product.Variant
		if vf.HasVariants && len(vf.Variants) == 0 {
			return domain.FieldErrors{"variants": "generate at least one variant"}
		}
	}
	return nil
}

func fieldGroup(sess *domain.FormSession, step domain.Step) any {
	switch step {
	case domain.StepShipping:
		return sess.Checkout.Shipping
	case domain.StepPayment:
		return sess.Checkout.Payment
	case domain.StepReview:
		return nil
	case domain.StepBasic:
		return sess.Product.Basic
	case domain.StepPricing:
		return sess.Product.Pricing
	case domain.StepInventory:
		return sess.Product.Inventory
	case domain.StepCategory:
		return sess.Product.Category
	case domain.StepMedia:
		return sess.Product.Media
	case domain.StepVariants:
		return nil
	}
	return nil
}
