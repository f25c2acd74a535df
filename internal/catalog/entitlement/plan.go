package entitlement

import "strings"

type Plan string

const (
	PlanFree            Plan = "free"
	PlanPro             Plan = "pro"
	PlanProPlus         Plan = "pro_plus"
	PlanVerified        Plan = "verified"
	PlanProPlusVerified Plan = "pro_plus_verified"
)

// ParsePlan normalizes a stored plan value. Unknown values resolve to free.
func ParsePlan(raw string) Plan {
	switch p := Plan(strings.ToLower(strings.TrimSpace(raw))); p {
	case PlanPro, PlanProPlus, PlanVerified, PlanProPlusVerified:
		return p
	default:
		return PlanFree
	}
}

// Plans lists every plan, cheapest first.
func Plans() []Plan {
	return []Plan{PlanFree, PlanPro, PlanVerified, PlanProPlus, PlanProPlusVerified}
}

var proCapabilities = []Capability{
	CustomWhatsAppMessage,
	GridLayout,
	BioMessage,
	CustomLinks,
}

// proPlusCustomization is the pro_plus tier's look-and-feel surface. It is
// the set extended to verified pro stores by verifiedProUpgrade.
var proPlusCustomization = []Capability{
	CatalogTheme,
	CustomBackground,
	PremiumAnimations,
	HideFooter,
}

// proPlusAdministrative stays exclusive to pro_plus plans.
var proPlusAdministrative = []Capability{
	AdvancedSettings,
	CustomStoreURL,
	Analytics,
	LeadCapture,
}

// planTable maps an effective plan to its baseline capabilities.
// VerifiedBadge is never part of it.
var planTable = map[Plan][]Capability{
	PlanFree:            nil,
	PlanPro:             proCapabilities,
	PlanVerified:        proCapabilities,
	PlanProPlus:         concat(proCapabilities, proPlusCustomization, proPlusAdministrative),
	PlanProPlusVerified: concat(proCapabilities, proPlusCustomization, proPlusAdministrative),
}

func concat(groups ...[]Capability) []Capability {
	var out []Capability
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
