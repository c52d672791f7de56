package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxBatchNameLength caps batch names so the filter UI and the subscription
// batch column stay bounded.
const MaxBatchNameLength = 10

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// SanitizeString removes null bytes, HTML-like markup and surrounding
// whitespace from free-text input.
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = htmlTagRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// SanitizeBatchName sanitizes a single batch name token and truncates it to
// MaxBatchNameLength runes. It deliberately does not touch commas: a token
// still carrying the delimiter after sanitization is a caller input error
// the catalog rejects explicitly.
func SanitizeBatchName(s string) string {
	return Truncate(SanitizeString(s), MaxBatchNameLength)
}

// Truncate shortens s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
