package aws

import (
	"regexp"

	"github.com/klothoplatform/tablestream/pkg/sanitization"
)

// FirehoseStreamSanitizer returns a valid delivery stream name when
// applied. Delivery stream names allow [a-zA-Z0-9_.-] up to 64
// characters.
var FirehoseStreamSanitizer = sanitization.NewSanitizer(
	[]sanitization.Rule{
		{
			Pattern:     regexp.MustCompile(`[^a-zA-Z0-9-._]+`),
			Replacement: "",
		},
	}, 64)
