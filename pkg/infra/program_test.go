package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/klothoplatform/tablestream/pkg/awspolicy"
	"github.com/klothoplatform/tablestream/pkg/pipeline"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/kinesis"
	"github.com/pulumi/pulumi/sdk/v3/go/common/resource"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRegion  = "us-east-1"
	testAccount = "123456789012"
)

type mocks struct{}

func (mocks) NewResource(args pulumi.MockResourceArgs) (string, resource.PropertyMap, error) {
	outputs := args.Inputs.Mappable()
	switch args.TypeToken {
	case "aws:glue/catalogDatabase:CatalogDatabase":
		outputs["catalogId"] = testAccount
	case "aws:iam/role:Role":
		outputs["arn"] = fmt.Sprintf("arn:aws:iam::%s:role/%s", testAccount, physicalName(args, "name"))
	case "aws:iam/policy:Policy":
		outputs["arn"] = fmt.Sprintf("arn:aws:iam::%s:policy/%s", testAccount, physicalName(args, "name"))
	case "aws:lambda/function:Function":
		outputs["arn"] = fmt.Sprintf("arn:aws:lambda:%s:%s:function:%s", testRegion, testAccount, physicalName(args, "name"))
	case "aws:kinesis/firehoseDeliveryStream:FirehoseDeliveryStream":
		outputs["arn"] = fmt.Sprintf("arn:aws:firehose:%s:%s:deliverystream/%s", testRegion, testAccount, physicalName(args, "name"))
	}
	return args.Name + "_id", resource.NewPropertyMapFromMap(outputs), nil
}

func (mocks) Call(args pulumi.MockCallArgs) (resource.PropertyMap, error) {
	switch args.Token {
	case "aws:index/getRegion:getRegion":
		return resource.NewPropertyMapFromMap(map[string]interface{}{
			"name": testRegion,
		}), nil

	case "aws:index/getCallerIdentity:getCallerIdentity":
		return resource.NewPropertyMapFromMap(map[string]interface{}{
			"accountId": testAccount,
		}), nil

	case "aws:index/getAvailabilityZones:getAvailabilityZones":
		return resource.NewPropertyMapFromMap(map[string]interface{}{
			"names":   []interface{}{"us-east-1a", "us-east-1b"},
			"zoneIds": []interface{}{"use1-az4", "use1-az6"},
		}), nil
	}
	return resource.PropertyMap{}, nil
}

func physicalName(args pulumi.MockResourceArgs, key string) string {
	if v, ok := args.Inputs[resource.PropertyKey(key)]; ok && v.IsString() {
		return v.StringValue()
	}
	return args.Name
}

// zonelessMocks answers the zone lookup with an empty region.
type zonelessMocks struct{ mocks }

func (zonelessMocks) Call(args pulumi.MockCallArgs) (resource.PropertyMap, error) {
	if args.Token == "aws:index/getAvailabilityZones:getAvailabilityZones" {
		return resource.NewPropertyMapFromMap(map[string]interface{}{
			"names":   []interface{}{},
			"zoneIds": []interface{}{},
		}), nil
	}
	return mocks{}.Call(args)
}

func TestDeclare(t *testing.T) {
	assert := assert.New(t)

	spec := pipeline.Spec{Name: "click-stream", AvailabilityZoneID: "use1-az1"}
	spec.ApplyDefaults()
	require.NoError(t, spec.Validate())

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		p, err := Declare(ctx, spec)
		require.NoError(t, err)
		assert.Nil(p.Transform)

		var wg sync.WaitGroup
		wg.Add(2)

		pulumi.All(p.BucketName, p.BucketArn, p.TableLocation).ApplyT(func(args []interface{}) error {
			defer wg.Done()
			assert.Equal("click-stream--use1-az1--x-s3", args[0])
			assert.Equal("arn:aws:s3express:us-east-1:123456789012:bucket/click-stream--use1-az1--x-s3", args[1])
			assert.Equal("s3express://click-stream--use1-az1--x-s3/events/", args[2])
			return nil
		})

		p.DeliveryPolicy.Policy.ApplyT(func(raw string) error {
			defer wg.Done()
			var doc awspolicy.PolicyDocument
			if !assert.NoError(json.Unmarshal([]byte(raw), &doc)) {
				return nil
			}
			assert.Equal(awspolicy.Version, doc.Version)
			if !assert.Len(doc.Statement, 3) {
				return nil
			}
			assert.Contains(doc.Statement[0].Resource, "arn:aws:s3express:us-east-1:123456789012:bucket/click-stream--use1-az1--x-s3/*")
			assert.Contains(doc.Statement[1].Resource, "arn:aws:glue:us-east-1:123456789012:table/click_stream_db/events")
			assert.Contains(doc.Statement[2].Resource, "arn:aws:logs:us-east-1:123456789012:log-group:/aws/kinesisfirehose/click-stream-delivery-stream:*")
			assert.NotContains(doc.Actions(), "lambda:InvokeFunction")
			return nil
		})

		wg.Wait()
		return nil
	}, pulumi.WithMocks("tablestream", "test", mocks{}))
	require.NoError(t, err)
}

func TestDeclareResolvesZone(t *testing.T) {
	assert := assert.New(t)

	spec := pipeline.Spec{Name: "click-stream"}
	spec.ApplyDefaults()

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		p, err := Declare(ctx, spec)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(1)
		p.BucketName.ApplyT(func(name string) error {
			defer wg.Done()
			assert.Equal("click-stream--use1-az4--x-s3", name)
			return nil
		})
		wg.Wait()
		return nil
	}, pulumi.WithMocks("tablestream", "test", mocks{}))
	require.NoError(t, err)
}

func TestDeclareNoZones(t *testing.T) {
	spec := pipeline.Spec{Name: "click-stream"}
	spec.ApplyDefaults()

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		_, err := Declare(ctx, spec)
		return err
	}, pulumi.WithMocks("tablestream", "test", zonelessMocks{}))
	assert.ErrorContains(t, err, "no available zones")
}

func TestDeclareTransform(t *testing.T) {
	assert := assert.New(t)

	archive := filepath.Join(t.TempDir(), "transform.zip")
	require.NoError(t, os.WriteFile(archive, []byte("stub"), 0o644))

	spec := pipeline.Spec{
		Name:               "click-stream",
		AvailabilityZoneID: "use1-az1",
		Transform: pipeline.TransformSpec{
			Enabled:  true,
			CodePath: archive,
		},
	}
	spec.ApplyDefaults()
	require.NoError(t, spec.Validate())

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		p, err := Declare(ctx, spec)
		require.NoError(t, err)
		require.NotNil(t, p.Transform)

		var wg sync.WaitGroup
		wg.Add(3)

		p.Transform.Function.Name.ApplyT(func(name string) error {
			defer wg.Done()
			assert.Equal("click-stream-partition-extractor", name)
			return nil
		})

		p.DeliveryPolicy.Policy.ApplyT(func(raw string) error {
			defer wg.Done()
			var doc awspolicy.PolicyDocument
			if !assert.NoError(json.Unmarshal([]byte(raw), &doc)) {
				return nil
			}
			assert.Len(doc.Statement, 4)
			assert.Contains(doc.Actions(), "lambda:InvokeFunction")
			assert.Contains(doc.Actions(), "lambda:GetFunctionConfiguration")
			return nil
		})

		p.Stream.ExtendedS3Configuration.ApplyT(func(cfg *kinesis.FirehoseDeliveryStreamExtendedS3Configuration) error {
			defer wg.Done()
			if !assert.NotNil(cfg.ProcessingConfiguration) ||
				!assert.Len(cfg.ProcessingConfiguration.Processors, 1) {
				return nil
			}
			proc := cfg.ProcessingConfiguration.Processors[0]
			assert.Equal("Lambda", proc.Type)
			if assert.Len(proc.Parameters, 1) {
				assert.Equal("LambdaArn", proc.Parameters[0].ParameterName)
				assert.Equal("arn:aws:lambda:us-east-1:123456789012:function:click-stream-partition-extractor", proc.Parameters[0].ParameterValue)
			}
			return nil
		})

		wg.Wait()
		return nil
	}, pulumi.WithMocks("tablestream", "test", mocks{}))
	require.NoError(t, err)
}
