package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/klothoplatform/tablestream/pkg/sanitization/aws"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Spec is the declarative description of one ingestion pipeline: a
	// directory bucket holding Iceberg table data, the Glue catalog
	// entries describing it, and the Firehose delivery stream writing
	// into it. A Spec carries only values; everything the provider
	// generates (ARNs, resolved zone ids) is derived at declaration
	// time.
	Spec struct {
		Name string `json:"name" yaml:"name" toml:"name"`

		// Region is the target AWS region. Empty defers to the
		// provider's own configuration.
		Region string `json:"region,omitempty" yaml:"region,omitempty" toml:"region,omitempty"`

		// AvailabilityZoneID pins the zonal bucket to a zone id such as
		// "use1-az4". Empty resolves the first available zone id at
		// declaration time.
		AvailabilityZoneID string `json:"availability_zone_id,omitempty" yaml:"availability_zone_id,omitempty" toml:"availability_zone_id,omitempty"`

		Storage   StorageSpec   `json:"storage,omitempty" yaml:"storage,omitempty" toml:"storage,omitempty"`
		Catalog   CatalogSpec   `json:"catalog,omitempty" yaml:"catalog,omitempty" toml:"catalog,omitempty"`
		Delivery  DeliverySpec  `json:"delivery,omitempty" yaml:"delivery,omitempty" toml:"delivery,omitempty"`
		Transform TransformSpec `json:"transform,omitempty" yaml:"transform,omitempty" toml:"transform,omitempty"`
	}

	StorageSpec struct {
		// BucketBaseName is the part of the bucket name before the
		// "--<az-id>--x-s3" suffix the service requires.
		BucketBaseName string `json:"bucket_base_name,omitempty" yaml:"bucket_base_name,omitempty" toml:"bucket_base_name,omitempty"`

		// ForceDestroy allows destroys to delete a non-empty bucket.
		ForceDestroy bool `json:"force_destroy,omitempty" yaml:"force_destroy,omitempty" toml:"force_destroy,omitempty"`
	}

	CatalogSpec struct {
		Database string `json:"database,omitempty" yaml:"database,omitempty" toml:"database,omitempty"`
		Table    string `json:"table,omitempty" yaml:"table,omitempty" toml:"table,omitempty"`

		// Columns is the schema the stream delivers after any
		// transform has run, so partition columns added by the
		// transform belong here too.
		Columns []Column `json:"columns,omitempty" yaml:"columns,omitempty" toml:"columns,omitempty"`

		// PartitionKeys must name declared columns.
		PartitionKeys []Column `json:"partition_keys,omitempty" yaml:"partition_keys,omitempty" toml:"partition_keys,omitempty"`

		// Compression is the parquet codec recorded on the table and
		// applied by the stream's serializer.
		Compression string `json:"compression,omitempty" yaml:"compression,omitempty" toml:"compression,omitempty"`
	}

	Column struct {
		Name string `json:"name" yaml:"name" toml:"name"`
		Type string `json:"type" yaml:"type" toml:"type"`
	}

	DeliverySpec struct {
		StreamName string `json:"stream_name,omitempty" yaml:"stream_name,omitempty" toml:"stream_name,omitempty"`

		// BufferingInterval is in seconds, BufferingSize in MiB. Zonal
		// buckets tolerate faster flushing and smaller buffers than
		// regional ones.
		BufferingInterval int `json:"buffering_interval,omitempty" yaml:"buffering_interval,omitempty" toml:"buffering_interval,omitempty"`
		BufferingSize     int `json:"buffering_size,omitempty" yaml:"buffering_size,omitempty" toml:"buffering_size,omitempty"`

		ErrorOutputPrefix string `json:"error_output_prefix,omitempty" yaml:"error_output_prefix,omitempty" toml:"error_output_prefix,omitempty"`
		LogStreamName     string `json:"log_stream_name,omitempty" yaml:"log_stream_name,omitempty" toml:"log_stream_name,omitempty"`
		LogRetentionDays  int    `json:"log_retention_days,omitempty" yaml:"log_retention_days,omitempty" toml:"log_retention_days,omitempty"`
	}

	// TransformSpec configures the optional record transform that
	// extracts partition fields before dynamic partitioning runs.
	// Dynamic partitioning needs the partition keys present in each
	// record, so sources that do not carry them need the transform.
	TransformSpec struct {
		Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled,omitempty"`

		// CodePath points at the zip archive holding the function code.
		CodePath string `json:"code_path,omitempty" yaml:"code_path,omitempty" toml:"code_path,omitempty"`

		Handler        string `json:"handler,omitempty" yaml:"handler,omitempty" toml:"handler,omitempty"`
		Runtime        string `json:"runtime,omitempty" yaml:"runtime,omitempty" toml:"runtime,omitempty"`
		TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" toml:"timeout_seconds,omitempty"`
		MemoryMB       int    `json:"memory_mb,omitempty" yaml:"memory_mb,omitempty" toml:"memory_mb,omitempty"`
	}
)

// ReadSpec decodes a pipeline spec from fpath, choosing the decoder by
// file extension.
func ReadSpec(fpath string) (Spec, error) {
	var spec Spec

	f, err := os.Open(fpath)
	if err != nil {
		return spec, errors.Wrapf(err, "could not read spec '%s'", fpath)
	}
	defer f.Close() // nolint:errcheck

	switch filepath.Ext(fpath) {
	case ".json":
		err = json.NewDecoder(f).Decode(&spec)

	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(&spec)

	case ".toml":
		err = toml.NewDecoder(f).Decode(&spec)

	default:
		return spec, errors.Errorf("unsupported spec format '%s'", filepath.Ext(fpath))
	}
	return spec, errors.Wrapf(err, "could not decode spec '%s'", fpath)
}

const (
	defaultBufferingInterval = 60
	defaultBufferingSize     = 5
	defaultErrorOutputPrefix = "firehose-errors/"
	defaultLogStreamName     = "S3ExpressDelivery"
	defaultLogRetentionDays  = 14
	defaultCompression       = "snappy"
)

// ApplyDefaults fills every unset field with its default. It is
// idempotent: applying it to an already-defaulted spec changes nothing.
func (s *Spec) ApplyDefaults() {
	if s.Name == "" {
		s.Name = "tablestream"
	}
	lower := strings.ToLower(s.Name)

	if s.Storage.BucketBaseName == "" {
		s.Storage.BucketBaseName = aws.DirectoryBucketBaseSanitizer.Apply(lower)
	}

	if s.Catalog.Database == "" {
		s.Catalog.Database = aws.GlueNameSanitizer.Apply(lower + "_db")
	}
	if s.Catalog.Table == "" {
		s.Catalog.Table = "events"
	}
	if len(s.Catalog.Columns) == 0 {
		s.Catalog.Columns = DefaultColumns()
	}
	if len(s.Catalog.PartitionKeys) == 0 {
		s.Catalog.PartitionKeys = DefaultPartitionKeys()
	}
	if s.Catalog.Compression == "" {
		s.Catalog.Compression = defaultCompression
	}

	if s.Delivery.StreamName == "" {
		s.Delivery.StreamName = aws.FirehoseStreamSanitizer.Apply(lower + "-delivery-stream")
	}
	if s.Delivery.BufferingInterval == 0 {
		s.Delivery.BufferingInterval = defaultBufferingInterval
	}
	if s.Delivery.BufferingSize == 0 {
		s.Delivery.BufferingSize = defaultBufferingSize
	}
	if s.Delivery.ErrorOutputPrefix == "" {
		s.Delivery.ErrorOutputPrefix = defaultErrorOutputPrefix
	}
	if s.Delivery.LogStreamName == "" {
		s.Delivery.LogStreamName = defaultLogStreamName
	}
	if s.Delivery.LogRetentionDays == 0 {
		s.Delivery.LogRetentionDays = defaultLogRetentionDays
	}

	if s.Transform.Enabled {
		if s.Transform.Handler == "" {
			s.Transform.Handler = "lambda_function.lambda_handler"
		}
		if s.Transform.Runtime == "" {
			s.Transform.Runtime = "python3.12"
		}
		if s.Transform.TimeoutSeconds == 0 {
			s.Transform.TimeoutSeconds = 60
		}
		if s.Transform.MemoryMB == 0 {
			s.Transform.MemoryMB = 128
		}
	}
}

// DefaultColumns is the web-event schema used when the spec declares no
// columns of its own. The date column is not part of the source events;
// the partition transform adds it.
func DefaultColumns() []Column {
	return []Column{
		{Name: "site_id", Type: "string"},
		{Name: "timestamp", Type: "timestamp"},
		{Name: "event_data", Type: "string"},
		{Name: "date", Type: "date"},
	}
}

func DefaultPartitionKeys() []Column {
	return []Column{
		{Name: "site_id", Type: "string"},
		{Name: "date", Type: "date"},
	}
}
