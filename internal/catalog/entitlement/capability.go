package entitlement

// Capability is a closed set of plan-gated features. Use the constants;
// string keys coming from clients go through ParseCapability.
type Capability uint8

const (
	CustomWhatsAppMessage Capability = iota + 1
	CatalogTheme
	CustomBackground
	GridLayout
	BioMessage
	CustomLinks
	AdvancedSettings
	HideFooter
	CustomStoreURL
	Analytics
	VerifiedBadge
	PremiumAnimations
	LeadCapture

	capabilityEnd
)

var capabilityKeys = map[Capability]string{
	CustomWhatsAppMessage: "custom_whatsapp_message",
	CatalogTheme:          "catalog_theme",
	CustomBackground:      "custom_background",
	GridLayout:            "grid_layout",
	BioMessage:            "bio_message",
	CustomLinks:           "custom_links",
	AdvancedSettings:      "advanced_settings",
	HideFooter:            "hide_footer",
	CustomStoreURL:        "custom_store_url",
	Analytics:             "analytics",
	VerifiedBadge:         "verified_badge",
	PremiumAnimations:     "premium_animations",
	LeadCapture:           "lead_capture",
}

var capabilityByKey = func() map[string]Capability {
	out := make(map[string]Capability, len(capabilityKeys))
	for c, k := range capabilityKeys {
		out[k] = c
	}
	return out
}()

func (c Capability) String() string {
	if k, ok := capabilityKeys[c]; ok {
		return k
	}
	return "unknown"
}

func (c Capability) Valid() bool { return c > 0 && c < capabilityEnd }

// ParseCapability maps a feature key to its Capability.
func ParseCapability(key string) (Capability, bool) {
	c, ok := capabilityByKey[key]
	return c, ok
}

// AllCapabilities lists every capability in declaration order.
func AllCapabilities() []Capability {
	out := make([]Capability, 0, int(capabilityEnd)-1)
	for c := Capability(1); c < capabilityEnd; c++ {
		out = append(out, c)
	}
	return out
}
