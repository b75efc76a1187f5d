package aws

import (
	"regexp"

	"github.com/klothoplatform/tablestream/pkg/sanitization"
)

// GlueNameSanitizer returns a valid Glue database or table name when
// applied. The catalog stores names lowercased, so callers lowercase
// before applying; anything outside [a-z0-9_] becomes an underscore.
var GlueNameSanitizer = sanitization.NewSanitizer(
	[]sanitization.Rule{
		{
			Pattern:     regexp.MustCompile(`[^a-z0-9_]`),
			Replacement: "_",
		},
	}, 255)
