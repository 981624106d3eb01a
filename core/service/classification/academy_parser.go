package classification

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// =============================================================================
// Response Parser & Repairer
// =============================================================================

// parsedResponse mirrors the JSON schema requested from the AI. Decoding is
// case-insensitive; snake_case keys are normalized before decoding.
type parsedResponse struct {
	CategoryCode   string   `json:"categoryCode"`
	CategoryName   string   `json:"categoryName"`
	IssueCategory  string   `json:"issueCategory"`
	Confidence     *float64 `json:"confidence"`
	Urgency        *float64 `json:"urgency"`
	Sentiment      string   `json:"sentiment"`
	SentimentScore *float64 `json:"sentimentScore"`
	Reason         string   `json:"reason"`
	MainIssue      string   `json:"mainIssue"`
}

// hasCategorySignal reports whether any category-bearing field came through.
func (p *parsedResponse) hasCategorySignal() bool {
	return p.CategoryCode != "" || p.CategoryName != "" || p.IssueCategory != ""
}

// empty reports whether nothing usable was extracted.
func (p *parsedResponse) empty() bool {
	return !p.hasCategorySignal() && p.Sentiment == "" && p.Urgency == nil &&
		p.SentimentScore == nil && p.Reason == "" && p.MainIssue == ""
}

// snakeKeyNormalizer rewrites the snake_case keys the AI tends to emit into
// the canonical field names the decoder expects. Applied to raw JSON text.
var snakeKeyNormalizer = strings.NewReplacer(
	`"category_code"`, `"categoryCode"`,
	`"category_name"`, `"categoryName"`,
	`"issue_category"`, `"issueCategory"`,
	`"sentiment_score"`, `"sentimentScore"`,
	`"main_issue"`, `"mainIssue"`,
)

var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// ParseResponse turns a raw AI completion into a structured object, or nil
// when no repair step can recover one. The second return reports whether the
// trailing-comma repair pass was needed.
func ParseResponse(raw string) (*parsedResponse, bool) {
	text := stripFences(raw)
	text = extractObject(text)
	if text == "" {
		return nil, false
	}
	text = snakeKeyNormalizer.Replace(text)

	var parsed parsedResponse
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		if parsed.empty() {
			return nil, false
		}
		return &parsed, false
	}

	// Repair pass: strip trailing commas before closing brackets and retry.
	repaired := trailingCommaPattern.ReplaceAllString(text, "$1")
	parsed = parsedResponse{}
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, false
	}
	if parsed.empty() {
		return nil, false
	}
	return &parsed, true
}

// stripFences removes Markdown code-fence wrappers around the payload.
func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// extractObject isolates the substring from the first '{' to the last '}',
// discarding narrative text on either side.
func extractObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// =============================================================================
// Regex Field Extraction (last-resort parse)
// =============================================================================

var (
	sentimentPattern = regexp.MustCompile(`(?i)"?sentiment"?\s*[:=]\s*"?\s*(positive|neutral|negative)`)
	scorePattern     = regexp.MustCompile(`(?i)"?sentiment[_\s]?score"?\s*[:=]\s*(-?\d+(?:\.\d+)?)`)
	urgencyPattern   = regexp.MustCompile(`(?i)"?urgency"?\s*[:=]\s*(\d+(?:\.\d+)?)`)
	codePattern      = regexp.MustCompile(`(?i)"?category[_\s]?code"?\s*[:=]\s*"?\s*([A-Za-z][A-Za-z0-9]{0,2})`)
	namePattern      = regexp.MustCompile(`(?i)"?category[_\s]?name"?\s*[:=]\s*"([^"]+)"`)
	reasonPattern    = regexp.MustCompile(`(?i)"?reason"?\s*[:=]\s*"([^"]+)"`)
)

// ExtractFields pulls individual classification fields out of raw text via
// pattern matching. Returns nil when nothing at all matches.
func ExtractFields(raw string) *parsedResponse {
	parsed := &parsedResponse{}
	matched := false

	if m := sentimentPattern.FindStringSubmatch(raw); m != nil {
		parsed.Sentiment = m[1]
		matched = true
	}
	if m := scorePattern.FindStringSubmatch(raw); m != nil {
		if v, ok := parseFloat(m[1]); ok {
			parsed.SentimentScore = &v
			matched = true
		}
	}
	if m := urgencyPattern.FindStringSubmatch(raw); m != nil {
		if v, ok := parseFloat(m[1]); ok {
			parsed.Urgency = &v
			matched = true
		}
	}
	if m := codePattern.FindStringSubmatch(raw); m != nil {
		parsed.CategoryCode = m[1]
		matched = true
	}
	if m := namePattern.FindStringSubmatch(raw); m != nil {
		parsed.CategoryName = m[1]
		matched = true
	}
	if m := reasonPattern.FindStringSubmatch(raw); m != nil {
		parsed.Reason = m[1]
		matched = true
	}

	if !matched {
		return nil
	}
	return parsed
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
