package domain

import (
	"time"
)

// Step is one named stage of a multi-step form wizard.
type Step string

// FormSession is the in-memory state of one multi-step form. Exactly one of
// Product/Checkout is set, matching Kind. Sessions live only in the session
// store; they are created on user action and discarded on successful
// submission or TTL expiry.
type FormSession struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	Kind       string         `json:"kind"`
	Step       Step           `json:"step"`
	Product    *ProductDraft  `json:"product,omitempty"`
	Checkout   *CheckoutDraft `json:"checkout,omitempty"`
	Submitting bool           `json:"submitting"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// Clone returns a deep copy of the session. Callers that hand session
// state to code running outside the session lock (response encoding,
// upstream payloads) must use a clone; the live session never escapes
// the store.
func (s *FormSession) Clone() *FormSession {
	out := *s
	if s.Checkout != nil {
		c := *s.Checkout
		out.Checkout = &c
	}
	if s.Product != nil {
		p := *s.Product
		p.Media.Images = append([]string(nil), s.Product.Media.Images...)
		p.Variant.Colors = s.Product.Variant.Colors.Clone()
		p.Variant.Sizes = s.Product.Variant.Sizes.Clone()
		if s.Product.Variant.Variants != nil {
			rows := make([]Variant, len(s.Product.Variant.Variants))
			copy(rows, s.Product.Variant.Variants)
			for i := range rows {
				rows[i].Images = append([]string(nil), rows[i].Images...)
			}
			p.Variant.Variants = rows
		}
		out.Product = &p
	}
	return &out
}

// Flow returns the fixed step order for the session's kind.
func (s *FormSession) Flow() []Step {
	if s.Kind == SessionKindCheckout {
		return CheckoutFlow
	}
	return ProductFlow
}

// StepIndex returns the position of the current step within the flow,
// or -1 if the step is not part of the flow.
func (s *FormSession) StepIndex() int {
	for i, st := range s.Flow() {
		if st == s.Step {
			return i
		}
	}
	return -1
}

// LastStep reports whether the session sits on the terminal (review) step.
func (s *FormSession) LastStep() bool {
	flow := s.Flow()
	return s.Step == flow[len(flow)-1]
}
