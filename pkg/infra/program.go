// Package infra declares the pipeline's cloud resources as an inline
// Pulumi program. Declaration only registers resources and derives
// identifiers; dependency ordering, diffing, and apply semantics belong
// to the engine driving the program.
package infra

import (
	"github.com/klothoplatform/tablestream/pkg/pipeline"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/cloudwatch"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/glue"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/kinesis"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/lambda"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/s3"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// Pipeline holds every resource the program declares plus the derived
// identifiers threading them together.
type Pipeline struct {
	Bucket   *s3.DirectoryBucket
	Database *glue.CatalogDatabase
	Table    *glue.CatalogTable

	DeliveryRole     *iam.Role
	DeliveryPolicy   *iam.Policy
	PolicyAttachment *iam.RolePolicyAttachment

	Transform *transform

	LogGroup  *cloudwatch.LogGroup
	LogStream *cloudwatch.LogStream
	Stream    *kinesis.FirehoseDeliveryStream

	// Derived values. BucketArn is composed from the generated bucket
	// name, not read back from the resource: the policy and the stream
	// configuration both depend on the composed form.
	BucketName    pulumi.StringOutput
	BucketArn     pulumi.StringOutput
	TableLocation pulumi.StringOutput
}

// transform groups the optional partition-extraction function with its
// execution role and log group.
type transform struct {
	Function *lambda.Function
	Role     *iam.Role
	LogGroup *cloudwatch.LogGroup
}

// Declare assembles the full resource graph for spec. The spec is
// expected to be defaulted and validated; Declare only wires values.
func Declare(ctx *pulumi.Context, spec pipeline.Spec) (*Pipeline, error) {
	env, err := resolveEnvironment(ctx, spec)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{}

	if err := p.declareStorage(ctx, spec, env); err != nil {
		return nil, err
	}
	if err := p.declareCatalog(ctx, spec); err != nil {
		return nil, err
	}
	if err := p.declareTransform(ctx, spec); err != nil {
		return nil, err
	}
	if err := p.declareIdentity(ctx, spec, env); err != nil {
		return nil, err
	}
	if err := p.declareDelivery(ctx, spec, env); err != nil {
		return nil, err
	}

	p.export(ctx)
	return p, nil
}

// RunFunc wraps Declare for the automation API's inline program form.
func RunFunc(spec pipeline.Spec) pulumi.RunFunc {
	return func(ctx *pulumi.Context) error {
		_, err := Declare(ctx, spec)
		return err
	}
}

func (p *Pipeline) export(ctx *pulumi.Context) {
	ctx.Export("s3_express_bucket_name", p.BucketName)
	ctx.Export("s3_express_bucket_arn", p.BucketArn)
	ctx.Export("s3_table_location", p.TableLocation)
	ctx.Export("glue_database_name", p.Database.Name)
	ctx.Export("glue_table_name", p.Table.Name)
	ctx.Export("firehose_delivery_stream_name", p.Stream.Name)
	ctx.Export("firehose_delivery_stream_arn", p.Stream.Arn)
	ctx.Export("firehose_log_group", p.LogGroup.Name)
	if p.Transform != nil {
		ctx.Export("partition_lambda_arn", p.Transform.Function.Arn)
	}
}
