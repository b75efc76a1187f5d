package aws

import (
	"regexp"

	"github.com/klothoplatform/tablestream/pkg/sanitization"
)

// DirectoryBucketBaseSanitizer sanitizes the base portion of a directory
// bucket name. Inputs are expected to be lowercased already. The limit is
// 46 because the full bucket name appends "--<az-id>--x-s3" (8 characters
// plus an availability zone id of up to 9) and must stay within 63.
var DirectoryBucketBaseSanitizer = sanitization.NewSanitizer(
	[]sanitization.Rule{
		{
			Pattern:     regexp.MustCompile(`[^a-z0-9-]`),
			Replacement: "-",
		},
		// repeated hyphens would be ambiguous with the zone suffix delimiter
		{
			Pattern:     regexp.MustCompile(`-{2,}`),
			Replacement: "-",
		},
		{
			Pattern:     regexp.MustCompile(`^-+`),
			Replacement: "",
		},
		{
			Pattern:     regexp.MustCompile(`-+$`),
			Replacement: "",
		},
	},
	46,
)

// S3ObjectPrefixSanitizer sanitizes key prefixes such as the delivery
// error prefix. S3 keys are close to free-form; only characters that
// break signing or the console are replaced.
var S3ObjectPrefixSanitizer = sanitization.NewSanitizer(
	[]sanitization.Rule{
		{
			Pattern:     regexp.MustCompile("[\\\\{}^%`\\[\\]\"<>~#|]"),
			Replacement: "-",
		},
	},
	1024,
)
