package aws

import (
	"regexp"

	"github.com/klothoplatform/tablestream/pkg/sanitization"
)

// CloudwatchLogGroupSanitizer returns a valid log group name when applied.
var CloudwatchLogGroupSanitizer = sanitization.NewSanitizer(
	[]sanitization.Rule{
		{
			Pattern:     regexp.MustCompile(`[^-._/#A-Za-z\d]`),
			Replacement: "_",
		},
	}, 512)

// CloudwatchLogStreamSanitizer returns a valid log stream name when
// applied. Stream names forbid ":" and "*".
var CloudwatchLogStreamSanitizer = sanitization.NewSanitizer(
	[]sanitization.Rule{
		{
			Pattern:     regexp.MustCompile(`[:*]`),
			Replacement: "_",
		},
	}, 512)
