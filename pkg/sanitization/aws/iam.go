package aws

import (
	"regexp"

	"github.com/klothoplatform/tablestream/pkg/sanitization"
)

// IamRoleSanitizer returns a valid IAM role name when applied.
var IamRoleSanitizer = sanitization.NewSanitizer(
	[]sanitization.Rule{
		{
			Pattern:     regexp.MustCompile(`[^\w+=,.@-]`),
			Replacement: "_",
		},
	}, 64)

// IamPolicySanitizer returns a valid IAM policy name when applied.
// Policy names allow up to 128 characters but are kept at the role
// limit so derived names line up.
var IamPolicySanitizer = sanitization.NewSanitizer(
	[]sanitization.Rule{
		{
			Pattern:     regexp.MustCompile(`[^\w+=,.@-]`),
			Replacement: "_",
		},
	}, 64)
