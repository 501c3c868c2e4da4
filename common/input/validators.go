package input

import (
	"strings"

	"github.com/quillhq/quill/common/models"
)

const (
	msgTagExists  = "Tag already exists"
	msgTagTooLong = "Tag name is too long"

	// The server caps tag names at 30 characters
	maxTagNameLen = 30
)

// TagName validates a tag-name field against the currently cached tag
// set, supplied lazily so the validator always sees the latest list.
// Emptiness is not an error here; IsValid already refuses empty fields.
func TagName(existing func() []models.Tag) Validator {
	return func(value string) string {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return ""
		}

		if len(trimmed) > maxTagNameLen {
			return msgTagTooLong
		}

		for _, t := range existing() {
			if strings.EqualFold(t.Name, trimmed) {
				return msgTagExists
			}
		}
		return ""
	}
}
