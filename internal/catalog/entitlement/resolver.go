package entitlement

import "time"

// CapabilitySet is the resolved entitlement of one store at one instant.
// It is a value; resolving never reads or writes shared state.
type CapabilitySet struct {
	EffectivePlan Plan
	granted       [capabilityEnd]bool
}

func (s CapabilitySet) Has(c Capability) bool {
	if !c.Valid() {
		return false
	}
	return s.granted[c]
}

// Map renders the set with every known key, for API payloads.
func (s CapabilitySet) Map() map[string]bool {
	out := make(map[string]bool, int(capabilityEnd)-1)
	for _, c := range AllCapabilities() {
		out[c.String()] = s.granted[c]
	}
	return out
}

func (s *CapabilitySet) grant(cs ...Capability) {
	for _, c := range cs {
		if c.Valid() {
			s.granted[c] = true
		}
	}
}

// EffectivePlan downgrades an expired plan to free.
func EffectivePlan(plan Plan, expiresAt *time.Time, now time.Time) Plan {
	if expiresAt != nil && expiresAt.Before(now) {
		return PlanFree
	}
	return ParsePlan(string(plan))
}

// Resolve computes the capabilities of a store. It is pure: the same inputs
// always produce the same set.
func Resolve(plan Plan, isVerified bool, expiresAt *time.Time, now time.Time) CapabilitySet {
	effective := EffectivePlan(plan, expiresAt, now)

	set := CapabilitySet{EffectivePlan: effective}
	set.grant(planTable[effective]...)
	if isVerified {
		set.grant(VerifiedBadge)
	}
	set.grant(verifiedProUpgrade(effective, isVerified)...)
	return set
}

// verifiedProUpgrade is the single place where verification changes the
// plan table: a verified store on pro receives the pro_plus customization
// capabilities, never the pro_plus administrative ones.
func verifiedProUpgrade(effective Plan, isVerified bool) []Capability {
	if effective != PlanPro || !isVerified {
		return nil
	}
	return proPlusCustomization
}

// Can reports whether c is granted. Unknown capabilities are denied.
func Can(caps CapabilitySet, c Capability) bool {
	return caps.Has(c)
}

// StoreState is the subset of a store profile entitlement depends on.
type StoreState struct {
	Plan       string
	IsVerified bool
	ExpiresAt  *time.Time
}

// CanAccessFeature is the string-keyed check used by API clients.
// Unknown keys resolve to false.
func CanAccessFeature(store StoreState, key string, now time.Time) bool {
	c, ok := ParseCapability(key)
	if !ok {
		return false
	}
	return Can(Resolve(Plan(store.Plan), store.IsVerified, store.ExpiresAt, now), c)
}
