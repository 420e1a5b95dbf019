// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

/*
Package subscription holds the subscription state enum and the pure policy
deciding whether premium material is exposed to a given viewer.

The policy is a presentation decision, not a security boundary: content
already sent to the client cannot be protected by a blur. Strict
confidentiality requires the content-serving collaborator to truncate premium
bodies server-side before the response is written.
*/
package subscription

// Status enumerates a user's subscription state.
type Status string

const (
	// StatusFree is the default state of every account.
	StatusFree Status = "FREE"

	// StatusActive means the billing collaborator reports a paid, unexpired
	// subscription.
	StatusActive Status = "ACTIVE"
)

// Valid reports whether the status is one of the known enumerated values.
func (s Status) Valid() bool {
	return s == StatusFree || s == StatusActive
}

// IsPremiumGated decides visibility of a content item for a viewer.
//
// Gated (blur/teaser) iff the content is marked premium AND the viewer's
// subscription is not active. Pure function, no I/O.
func IsPremiumGated(isPremium bool, status Status) bool {
	return isPremium && status != StatusActive
}
