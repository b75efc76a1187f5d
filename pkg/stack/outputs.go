package stack

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"gopkg.in/yaml.v3"
)

// Outputs is the typed view of the pipeline stack's exports. Field
// names mirror the export keys so recorded outputs read the same as
// the engine's own output listing.
type Outputs struct {
	BucketName    string `yaml:"s3_express_bucket_name" json:"s3_express_bucket_name"`
	BucketArn     string `yaml:"s3_express_bucket_arn" json:"s3_express_bucket_arn"`
	TableLocation string `yaml:"s3_table_location" json:"s3_table_location"`

	DatabaseName string `yaml:"glue_database_name" json:"glue_database_name"`
	TableName    string `yaml:"glue_table_name" json:"glue_table_name"`

	StreamName string `yaml:"firehose_delivery_stream_name" json:"firehose_delivery_stream_name"`
	StreamArn  string `yaml:"firehose_delivery_stream_arn" json:"firehose_delivery_stream_arn"`
	LogGroup   string `yaml:"firehose_log_group" json:"firehose_log_group"`

	PartitionLambdaArn string `yaml:"partition_lambda_arn,omitempty" json:"partition_lambda_arn,omitempty"`
}

// FromOutputMap pulls the known export keys out of the engine's output
// map. Missing or non-string values read as empty.
func FromOutputMap(m auto.OutputMap) Outputs {
	str := func(key string) string {
		v, ok := m[key]
		if !ok {
			return ""
		}
		s, ok := v.Value.(string)
		if !ok {
			return ""
		}
		return s
	}

	return Outputs{
		BucketName:         str("s3_express_bucket_name"),
		BucketArn:          str("s3_express_bucket_arn"),
		TableLocation:      str("s3_table_location"),
		DatabaseName:       str("glue_database_name"),
		TableName:          str("glue_table_name"),
		StreamName:         str("firehose_delivery_stream_name"),
		StreamArn:          str("firehose_delivery_stream_arn"),
		LogGroup:           str("firehose_log_group"),
		PartitionLambdaArn: str("partition_lambda_arn"),
	}
}

// GetOutputs reads the stack's current outputs.
func GetOutputs(ctx context.Context, s StackInterface) (Outputs, error) {
	outputMap, err := s.Outputs(ctx)
	if err != nil {
		return Outputs{}, fmt.Errorf("Failed to read stack outputs: %w", err)
	}
	return FromOutputMap(outputMap), nil
}

func (o Outputs) YAML() (string, error) {
	data, err := yaml.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("Failed to marshal outputs: %w", err)
	}
	return string(data), nil
}

func (o Outputs) JSON() (string, error) {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return "", fmt.Errorf("Failed to marshal outputs: %w", err)
	}
	return string(data), nil
}
