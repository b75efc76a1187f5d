package infra

import (
	"strings"

	"github.com/klothoplatform/tablestream/pkg/pipeline"
	"github.com/klothoplatform/tablestream/pkg/sanitization/aws"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/cloudwatch"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/kinesis"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// Partition-key extraction failures are retried for this long before
// records land under the error prefix.
const dynamicPartitioningRetrySeconds = 60

// declareDelivery creates the delivery stream plus the log group and
// stream it reports into. Records arrive as JSON, are converted to
// parquet against the catalog table's schema, and are written under the
// table's path with dynamic partitioning enabled; compression happens
// in the parquet serializer, not on the stream.
func (p *Pipeline) declareDelivery(ctx *pulumi.Context, spec pipeline.Spec, env environment) error {
	logGroup, err := cloudwatch.NewLogGroup(ctx, "deliveryLogs", &cloudwatch.LogGroupArgs{
		Name:            pulumi.String(aws.CloudwatchLogGroupSanitizer.Apply(pipeline.FirehoseLogGroupName(spec.Delivery.StreamName))),
		RetentionInDays: pulumi.Int(spec.Delivery.LogRetentionDays),
	})
	if err != nil {
		return err
	}
	p.LogGroup = logGroup

	logStream, err := cloudwatch.NewLogStream(ctx, "deliveryLogStream", &cloudwatch.LogStreamArgs{
		Name:         pulumi.String(aws.CloudwatchLogStreamSanitizer.Apply(spec.Delivery.LogStreamName)),
		LogGroupName: logGroup.Name,
	})
	if err != nil {
		return err
	}
	p.LogStream = logStream

	extended := &kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationArgs{
		RoleArn:   p.DeliveryRole.Arn,
		BucketArn: p.BucketArn,

		// The prefix must match the catalog table's location path
		// segment or delivered files fall outside the table.
		Prefix:            pulumi.String(spec.Catalog.Table + "/"),
		ErrorOutputPrefix: pulumi.String(aws.S3ObjectPrefixSanitizer.Apply(spec.Delivery.ErrorOutputPrefix)),

		BufferingInterval: pulumi.Int(spec.Delivery.BufferingInterval),
		BufferingSize:     pulumi.Int(spec.Delivery.BufferingSize),

		// Parquet compresses inside the serializer.
		CompressionFormat: pulumi.String("UNCOMPRESSED"),

		CloudwatchLoggingOptions: &kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationCloudwatchLoggingOptionsArgs{
			Enabled:       pulumi.Bool(true),
			LogGroupName:  logGroup.Name,
			LogStreamName: logStream.Name,
		},

		DataFormatConversionConfiguration: &kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationDataFormatConversionConfigurationArgs{
			Enabled: pulumi.Bool(true),
			InputFormatConfiguration: &kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationDataFormatConversionConfigurationInputFormatConfigurationArgs{
				Deserializer: &kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationDataFormatConversionConfigurationInputFormatConfigurationDeserializerArgs{
					OpenXJsonSerDe: &kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationDataFormatConversionConfigurationInputFormatConfigurationDeserializerOpenXJsonSerDeArgs{},
				},
			},
			OutputFormatConfiguration: &kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationDataFormatConversionConfigurationOutputFormatConfigurationArgs{
				Serializer: &kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationDataFormatConversionConfigurationOutputFormatConfigurationSerializerArgs{
					ParquetSerDe: &kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationDataFormatConversionConfigurationOutputFormatConfigurationSerializerParquetSerDeArgs{
						Compression: pulumi.String(strings.ToUpper(spec.Catalog.Compression)),
					},
				},
			},
			SchemaConfiguration: &kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationDataFormatConversionConfigurationSchemaConfigurationArgs{
				RoleArn:      p.DeliveryRole.Arn,
				DatabaseName: p.Database.Name,
				TableName:    p.Table.Name,
				Region:       pulumi.String(env.Region),
			},
		},

		DynamicPartitioningConfiguration: &kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationDynamicPartitioningConfigurationArgs{
			Enabled:       pulumi.Bool(true),
			RetryDuration: pulumi.Int(dynamicPartitioningRetrySeconds),
		},
	}

	if p.Transform != nil {
		extended.ProcessingConfiguration = &kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationProcessingConfigurationArgs{
			Enabled: pulumi.Bool(true),
			Processors: kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationProcessingConfigurationProcessorArray{
				&kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationProcessingConfigurationProcessorArgs{
					Type: pulumi.String("Lambda"),
					Parameters: kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationProcessingConfigurationProcessorParameterArray{
						&kinesis.FirehoseDeliveryStreamExtendedS3ConfigurationProcessingConfigurationProcessorParameterArgs{
							ParameterName:  pulumi.String("LambdaArn"),
							ParameterValue: p.Transform.Function.Arn,
						},
					},
				},
			},
		}
	}

	// The service checks the role's permissions when it creates the
	// stream, so creation has to wait for the policy attachment, which
	// the configuration itself does not reference.
	stream, err := kinesis.NewFirehoseDeliveryStream(ctx, "deliveryStream", &kinesis.FirehoseDeliveryStreamArgs{
		Name:                    pulumi.String(spec.Delivery.StreamName),
		Destination:             pulumi.String("extended_s3"),
		ExtendedS3Configuration: extended,
	}, pulumi.DependsOn([]pulumi.Resource{p.PolicyAttachment}))
	if err != nil {
		return err
	}
	p.Stream = stream
	return nil
}
