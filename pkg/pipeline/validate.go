package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/klothoplatform/tablestream/pkg/multierr"
	"github.com/klothoplatform/tablestream/pkg/set"
)

// glueTypes is the set of primitive catalog column types the stream's
// parquet conversion understands. Parameterized types (decimal, char,
// varchar) are matched separately.
var glueTypes = set.SetOf(
	"boolean",
	"tinyint", "smallint", "int", "bigint",
	"float", "double",
	"string", "binary",
	"date", "timestamp",
)

var parameterizedTypePattern = regexp.MustCompile(`^(decimal\(\d+, ?\d+\)|char\(\d+\)|varchar\(\d+\))$`)

// ValidColumnType reports whether t is a catalog column type the
// pipeline can convert records into.
func ValidColumnType(t string) bool {
	return glueTypes.Contains(t) || parameterizedTypePattern.MatchString(t)
}

// Validate checks every provider naming rule and range the declaration
// depends on, and reports all violations at once. It never mutates the
// spec; callers wanting defaults apply them first.
func (s Spec) Validate() error {
	var merr multierr.Error

	if s.Name == "" {
		merr.Append(fmt.Errorf("name must not be empty"))
	}

	if s.AvailabilityZoneID != "" && !ValidAvailabilityZoneID(s.AvailabilityZoneID) {
		merr.Append(fmt.Errorf("availability_zone_id %q is not a zone id (want the form use1-az4)", s.AvailabilityZoneID))
	}

	s.validateStorage(&merr)
	s.validateCatalog(&merr)
	s.validateDelivery(&merr)
	s.validateTransform(&merr)

	return merr.ErrOrNil()
}

func (s Spec) validateStorage(merr *multierr.Error) {
	base := s.Storage.BucketBaseName
	if base == "" {
		merr.Append(fmt.Errorf("storage: bucket_base_name must not be empty"))
		return
	}
	if !bucketBaseNamePattern.MatchString(base) {
		merr.Append(fmt.Errorf("storage: bucket_base_name %q must be lowercase letters, digits, or hyphens and start and end alphanumeric", base))
	}
	if strings.Contains(base, "--") {
		merr.Append(fmt.Errorf("storage: bucket_base_name %q must not contain \"--\", the zone suffix delimiter", base))
	}

	// When the zone id is resolved at declaration time, check the
	// generated length against the longest possible id.
	azID := s.AvailabilityZoneID
	if azID == "" {
		azID = "apse9-az9"
	}
	if name := DirectoryBucketName(base, azID); len(name) > maxDirectoryBucketName {
		merr.Append(fmt.Errorf("storage: generated bucket name %q exceeds %d characters", name, maxDirectoryBucketName))
	}
}

func (s Spec) validateCatalog(merr *multierr.Error) {
	if !glueNamePattern.MatchString(s.Catalog.Database) {
		merr.Append(fmt.Errorf("catalog: database %q must match %s", s.Catalog.Database, glueNamePattern))
	}
	if !glueNamePattern.MatchString(s.Catalog.Table) {
		merr.Append(fmt.Errorf("catalog: table %q must match %s", s.Catalog.Table, glueNamePattern))
	}

	if len(s.Catalog.Columns) == 0 {
		merr.Append(fmt.Errorf("catalog: at least one column is required"))
	}
	declared := make(set.Set[string], len(s.Catalog.Columns))
	for _, col := range s.Catalog.Columns {
		if col.Name == "" {
			merr.Append(fmt.Errorf("catalog: column with type %q has no name", col.Type))
			continue
		}
		if declared.Contains(col.Name) {
			merr.Append(fmt.Errorf("catalog: column %q declared more than once", col.Name))
		}
		declared.Add(col.Name)
		if !ValidColumnType(col.Type) {
			merr.Append(fmt.Errorf("catalog: column %q has unknown type %q (known types: %s)", col.Name, col.Type, glueTypes))
		}
	}

	if len(s.Catalog.PartitionKeys) == 0 {
		merr.Append(fmt.Errorf("catalog: at least one partition key is required for dynamic partitioning"))
	}
	for _, key := range s.Catalog.PartitionKeys {
		if !declared.Contains(key.Name) {
			merr.Append(fmt.Errorf("catalog: partition key %q is not a declared column", key.Name))
		}
	}

	switch s.Catalog.Compression {
	case "snappy", "gzip", "uncompressed":
	default:
		merr.Append(fmt.Errorf("catalog: compression %q is not a parquet codec the stream supports (snappy, gzip, uncompressed)", s.Catalog.Compression))
	}
}

func (s Spec) validateDelivery(merr *multierr.Error) {
	if !streamNamePattern.MatchString(s.Delivery.StreamName) {
		merr.Append(fmt.Errorf("delivery: stream_name %q must match %s", s.Delivery.StreamName, streamNamePattern))
	}
	if s.Delivery.BufferingInterval < 0 || s.Delivery.BufferingInterval > 900 {
		merr.Append(fmt.Errorf("delivery: buffering_interval %d is outside 0-900 seconds", s.Delivery.BufferingInterval))
	}
	if s.Delivery.BufferingSize < 1 || s.Delivery.BufferingSize > 128 {
		merr.Append(fmt.Errorf("delivery: buffering_size %d is outside 1-128 MiB", s.Delivery.BufferingSize))
	}
	if s.Delivery.ErrorOutputPrefix == "" {
		merr.Append(fmt.Errorf("delivery: error_output_prefix must not be empty"))
	}
	if s.Delivery.LogRetentionDays < 0 {
		merr.Append(fmt.Errorf("delivery: log_retention_days must not be negative"))
	}
}

func (s Spec) validateTransform(merr *multierr.Error) {
	if !s.Transform.Enabled {
		return
	}

	if s.Transform.CodePath == "" {
		merr.Append(fmt.Errorf("transform: code_path is required when the transform is enabled"))
	}
	if s.Transform.Handler == "" {
		merr.Append(fmt.Errorf("transform: handler is required when the transform is enabled"))
	}
	if s.Transform.Runtime == "" {
		merr.Append(fmt.Errorf("transform: runtime is required when the transform is enabled"))
	}
	if s.Transform.TimeoutSeconds < 1 || s.Transform.TimeoutSeconds > 900 {
		merr.Append(fmt.Errorf("transform: timeout_seconds %d is outside 1-900", s.Transform.TimeoutSeconds))
	}
	if s.Transform.MemoryMB < 128 || s.Transform.MemoryMB > 10240 {
		merr.Append(fmt.Errorf("transform: memory_mb %d is outside 128-10240", s.Transform.MemoryMB))
	}
}
