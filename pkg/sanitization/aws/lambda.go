package aws

import (
	"regexp"

	"github.com/klothoplatform/tablestream/pkg/sanitization"
)

// LambdaFunctionSanitizer returns a sanitized lambda function name when applied.
var LambdaFunctionSanitizer = sanitization.NewSanitizer(
	[]sanitization.Rule{
		// strip any characters not matching [a-zA-Z0-9-_]
		{
			Pattern:     regexp.MustCompile(`[^\w-]+`),
			Replacement: "",
		},
	}, 64)
