package pipeline

import (
	"fmt"
	"regexp"
)

// maxDirectoryBucketName is the provider's length cap on the full
// generated bucket name, suffix included.
const maxDirectoryBucketName = 63

var (
	// availabilityZoneIDPattern matches zone ids such as "use1-az4" or
	// "apne1-az2". Zone ids, unlike zone names, are stable across
	// accounts, which is why the zonal bucket location wants them.
	availabilityZoneIDPattern = regexp.MustCompile(`^[a-z]{2,4}\d-az\d$`)

	bucketBaseNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
	glueNamePattern       = regexp.MustCompile(`^[a-z0-9_]{1,255}$`)
	streamNamePattern     = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)
)

// DirectoryBucketName composes the full bucket name the zonal storage
// service requires: <base>--<az-id>--x-s3.
func DirectoryBucketName(base, azID string) string {
	return fmt.Sprintf("%s--%s--x-s3", base, azID)
}

func ValidAvailabilityZoneID(id string) bool {
	return availabilityZoneIDPattern.MatchString(id)
}
