package extract

import (
	"sort"
	"strings"

	"github.com/fieldlens/invoice-extract-service/internal/models"
)

// DefaultVendorConfig returns the canonical vendor resolver tuning. The
// historical variants disagreed on window sizes and keyword lists, so all of
// it is configuration.
func DefaultVendorConfig() models.VendorConfig {
	return models.VendorConfig{
		LabelKeywords:      []string{"vendor:", "supplier:", "from:", "bill from:"},
		ExclusionKeywords:  []string{"invoice", "bill", "date", "tax", "total"},
		KeywordLineWindow:  15,
		FallbackLineWindow: 10,
		TopBlocks:          5,
		MinLineLength:      5,
		MaxDigitRatio:      0.4,
	}
}

// VendorResolver locates the vendor/supplier name through a three-layer
// cascade: label-keyword line search, layout-block analysis, then a plain
// line heuristic. It is total over its input; every layer degrades to the
// VendorNotFound sentinel instead of failing.
type VendorResolver struct {
	cfg models.VendorConfig
}

// NewVendorResolver creates a resolver, filling zero-valued config fields
// with the canonical defaults.
func NewVendorResolver(cfg models.VendorConfig) *VendorResolver {
	def := DefaultVendorConfig()
	if len(cfg.LabelKeywords) == 0 {
		cfg.LabelKeywords = def.LabelKeywords
	}
	if len(cfg.ExclusionKeywords) == 0 {
		cfg.ExclusionKeywords = def.ExclusionKeywords
	}
	if cfg.KeywordLineWindow <= 0 {
		cfg.KeywordLineWindow = def.KeywordLineWindow
	}
	if cfg.FallbackLineWindow <= 0 {
		cfg.FallbackLineWindow = def.FallbackLineWindow
	}
	if cfg.TopBlocks <= 0 {
		cfg.TopBlocks = def.TopBlocks
	}
	if cfg.MinLineLength <= 0 {
		cfg.MinLineLength = def.MinLineLength
	}
	if cfg.MaxDigitRatio <= 0 {
		cfg.MaxDigitRatio = def.MaxDigitRatio
	}
	return &VendorResolver{cfg: cfg}
}

// Resolve returns the vendor name for one page. Raw (pre-normalization) text
// is expected so line structure is intact; blocks are optional layout hints
// and are never mutated. Returns the sentinel when every layer comes up empty.
func (r *VendorResolver) Resolve(rawText string, blocks []models.LayoutBlock) string {
	lines := nonEmptyLines(rawText)

	if vendor, ok := r.searchLabelKeywords(lines); ok {
		return vendor
	}
	if vendor, ok := r.searchLayoutBlocks(blocks); ok {
		return vendor
	}
	if vendor, ok := r.fallbackLineScan(lines); ok {
		return vendor
	}
	return models.VendorNotFound
}

// searchLabelKeywords scans the top of the document for an explicit label
// like "Vendor:" or "Bill From:" and returns the text after the final colon.
func (r *VendorResolver) searchLabelKeywords(lines []string) (string, bool) {
	window := lines
	if len(window) > r.cfg.KeywordLineWindow {
		window = window[:r.cfg.KeywordLineWindow]
	}
	for _, line := range window {
		lower := strings.ToLower(line)
		for _, key := range r.cfg.LabelKeywords {
			if strings.Contains(lower, key) {
				idx := strings.LastIndex(line, ":")
				if idx < 0 {
					continue
				}
				return strings.TrimSpace(line[idx+1:]), true
			}
		}
	}
	return "", false
}

// searchLayoutBlocks examines the topmost blocks on the page, assuming the
// vendor header sits near the top. Blocks are sorted by vertical position on
// a copy; the caller's slice is borrowed read-only.
func (r *VendorResolver) searchLayoutBlocks(blocks []models.LayoutBlock) (string, bool) {
	if len(blocks) == 0 {
		return "", false
	}

	sorted := make([]models.LayoutBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y < sorted[j].Y })

	if len(sorted) > r.cfg.TopBlocks {
		sorted = sorted[:r.cfg.TopBlocks]
	}
	for _, block := range sorted {
		text := strings.TrimSpace(block.Text)
		if len(strings.Fields(text)) < 2 || len(text) <= r.cfg.MinLineLength {
			continue
		}
		if r.containsExclusionKeyword(text) {
			continue
		}
		return text, true
	}
	return "", false
}

// fallbackLineScan is the last heuristic: the first early line that is not
// dominated by digits, carries no financial/label keyword, and is long enough
// to plausibly be a name.
func (r *VendorResolver) fallbackLineScan(lines []string) (string, bool) {
	window := lines
	if len(window) > r.cfg.FallbackLineWindow {
		window = window[:r.cfg.FallbackLineWindow]
	}
	for _, line := range window {
		if len(line) < r.cfg.MinLineLength {
			continue
		}
		if digitRatio(line) > r.cfg.MaxDigitRatio {
			continue
		}
		if r.containsExclusionKeyword(line) {
			continue
		}
		return line, true
	}
	return "", false
}

func (r *VendorResolver) containsExclusionKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range r.cfg.ExclusionKeywords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// nonEmptyLines splits raw text into trimmed, non-empty lines.
func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// digitRatio reports the share of digit characters in a line.
func digitRatio(line string) float64 {
	if line == "" {
		return 0
	}
	digits := 0
	for _, r := range line {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return float64(digits) / float64(len([]rune(line)))
}
