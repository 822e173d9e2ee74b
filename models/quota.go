package models

// QuotaDecision is the outcome of a quota check. Remaining and Limit are
// diagnostic values for display; the usage record stays authoritative.
type QuotaDecision struct {
	Allowed   bool  `json:"allowed"`
	Remaining Limit `json:"remaining"`
	Limit     Limit `json:"limit"`
}

// MeterUsage reports consumption against one meter for the usage endpoint.
type MeterUsage struct {
	Used      int   `json:"used"`
	Limit     Limit `json:"limit"`
	Remaining Limit `json:"remaining"`
}

// UsageResponse defines the structure for the /api/usage endpoint response.
type UsageResponse struct {
	UserType       string         `json:"user_type"` // "anonymous" or "registered"
	UserID         string         `json:"user_id"`
	Plan           PlanType       `json:"plan"`
	Content        MeterUsage     `json:"content"`
	Image          MeterUsage     `json:"image"`
	TemplateAccess TemplateAccess `json:"template_access"`
	APIAccess      bool           `json:"api_access"`
	WhiteLabeling  bool           `json:"white_labeling"`
}
