package catalog

// DailyViews is the storefront view count of one UTC day (YYYY-MM-DD).
type DailyViews struct {
	Day   string `json:"day"`
	Views int64  `json:"views"`
}
