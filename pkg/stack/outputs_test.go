package stack

import (
	"context"
	"errors"
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Mock stack that embeds auto.Stack and overrides the Outputs method
type mockStack struct {
	auto.Stack
	outputs auto.OutputMap
	err     error
}

func (m *mockStack) Outputs(ctx context.Context) (auto.OutputMap, error) {
	return m.outputs, m.err
}

func testOutputMap() auto.OutputMap {
	return auto.OutputMap{
		"s3_express_bucket_name":        auto.OutputValue{Value: "click-stream--use1-az4--x-s3"},
		"s3_express_bucket_arn":         auto.OutputValue{Value: "arn:aws:s3express:us-east-1:123456789012:bucket/click-stream--use1-az4--x-s3"},
		"s3_table_location":             auto.OutputValue{Value: "s3express://click-stream--use1-az4--x-s3/events/"},
		"glue_database_name":            auto.OutputValue{Value: "click_stream_db"},
		"glue_table_name":               auto.OutputValue{Value: "events"},
		"firehose_delivery_stream_name": auto.OutputValue{Value: "click-stream-delivery-stream"},
		"firehose_delivery_stream_arn":  auto.OutputValue{Value: "arn:aws:firehose:us-east-1:123456789012:deliverystream/click-stream-delivery-stream"},
		"firehose_log_group":            auto.OutputValue{Value: "/aws/kinesisfirehose/click-stream-delivery-stream"},
		"unrelated":                     auto.OutputValue{Value: 42},
	}
}

func TestFromOutputMap(t *testing.T) {
	assert := assert.New(t)

	o := FromOutputMap(testOutputMap())
	assert.Equal("click-stream--use1-az4--x-s3", o.BucketName)
	assert.Equal("arn:aws:s3express:us-east-1:123456789012:bucket/click-stream--use1-az4--x-s3", o.BucketArn)
	assert.Equal("s3express://click-stream--use1-az4--x-s3/events/", o.TableLocation)
	assert.Equal("click_stream_db", o.DatabaseName)
	assert.Equal("events", o.TableName)
	assert.Equal("click-stream-delivery-stream", o.StreamName)
	assert.Equal("/aws/kinesisfirehose/click-stream-delivery-stream", o.LogGroup)

	// Transform disabled: no lambda export recorded.
	assert.Empty(o.PartitionLambdaArn)
}

func TestFromOutputMapNonString(t *testing.T) {
	o := FromOutputMap(auto.OutputMap{
		"s3_express_bucket_name": auto.OutputValue{Value: 7},
	})
	assert.Empty(t, o.BucketName)
}

func TestGetOutputs(t *testing.T) {
	assert := assert.New(t)

	o, err := GetOutputs(context.Background(), &mockStack{outputs: testOutputMap()})
	require.NoError(t, err)
	assert.Equal("click-stream--use1-az4--x-s3", o.BucketName)

	_, err = GetOutputs(context.Background(), &mockStack{err: errors.New("no stack")})
	assert.ErrorContains(err, "Failed to read stack outputs")
}

func TestOutputsYAML(t *testing.T) {
	assert := assert.New(t)

	o := FromOutputMap(testOutputMap())
	rendered, err := o.YAML()
	require.NoError(t, err)
	assert.Contains(rendered, "s3_express_bucket_name: click-stream--use1-az4--x-s3")
	assert.NotContains(rendered, "partition_lambda_arn")

	var decoded Outputs
	require.NoError(t, yaml.Unmarshal([]byte(rendered), &decoded))
	assert.Equal(o, decoded)
}
