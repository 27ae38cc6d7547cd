package models

// Config represents the service configuration
type Config struct {
	// Server config
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	// Extraction tuning
	Extraction ExtractionConfig `yaml:"extraction"`

	// Model provider config
	AI AIConfig `yaml:"ai"`
}

// ExtractionConfig tunes the rule-based extraction engine. The vendor windows
// and scoring weights existed in several conflicting historical variants, so
// they are configuration rather than constants.
type ExtractionConfig struct {
	Vendor  VendorConfig  `yaml:"vendor"`
	Scoring ScoringConfig `yaml:"scoring"`
}

// VendorConfig drives the three-layer vendor resolver.
type VendorConfig struct {
	LabelKeywords      []string `yaml:"label_keywords"`       // e.g. "vendor:", "supplier:"
	ExclusionKeywords  []string `yaml:"exclusion_keywords"`   // words disqualifying a candidate line/block
	KeywordLineWindow  int      `yaml:"keyword_line_window"`  // non-empty lines scanned in layer 1
	FallbackLineWindow int      `yaml:"fallback_line_window"` // non-empty lines scanned in layer 3
	TopBlocks          int      `yaml:"top_blocks"`           // layout blocks examined in layer 2
	MinLineLength      int      `yaml:"min_line_length"`
	MaxDigitRatio      float64  `yaml:"max_digit_ratio"`
}

// ScoringConfig holds the per-field confidence weights and the arithmetic
// cross-check tolerance (absolute currency units).
type ScoringConfig struct {
	VendorWeight   float64 `yaml:"vendor_weight"`
	NumberWeight   float64 `yaml:"number_weight"`
	TotalWeight    float64 `yaml:"total_weight"`
	DateWeight     float64 `yaml:"date_weight"`
	SubtotalWeight float64 `yaml:"subtotal_weight"`
	TaxWeight      float64 `yaml:"tax_weight"`
	Tolerance      float64 `yaml:"tolerance"`
}

// AIConfig represents model provider configuration
type AIConfig struct {
	OpenAI OpenAIConfig `yaml:"openai"`
	Gemini GeminiConfig `yaml:"gemini"`

	// Default provider when a request enables the model pipeline without
	// naming one. Empty disables the model pipeline entirely.
	DefaultProvider string `yaml:"default_provider"` // "openai" or "gemini"
}

// OpenAIConfig for OpenAI/Azure OpenAI
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"` // For custom endpoints
	Model   string `yaml:"model"`              // Default: "gpt-4o-mini"
}

// GeminiConfig for Google Gemini
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-1.5-flash"
}
