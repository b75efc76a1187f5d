package infra

import (
	"github.com/klothoplatform/tablestream/pkg/pipeline"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/s3"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// declareStorage creates the zonal directory bucket the table data
// lands in. The bucket is the root of the declaration graph: its
// generated name feeds the ARN and location strings everything else
// consumes.
func (p *Pipeline) declareStorage(ctx *pulumi.Context, spec pipeline.Spec, env environment) error {
	bucketName := pipeline.DirectoryBucketName(spec.Storage.BucketBaseName, env.ZoneID)

	bucket, err := s3.NewDirectoryBucket(ctx, "tableBucket", &s3.DirectoryBucketArgs{
		Bucket: pulumi.String(bucketName),
		Location: &s3.DirectoryBucketLocationArgs{
			Name: pulumi.String(env.ZoneID),
			Type: pulumi.String("AvailabilityZone"),
		},
		DataRedundancy: pulumi.String("SingleAvailabilityZone"),
		Type:           pulumi.String("Directory"),
		ForceDestroy:   pulumi.Bool(spec.Storage.ForceDestroy),
	})
	if err != nil {
		return err
	}

	p.Bucket = bucket
	p.BucketName = bucket.Bucket

	// The s3express ARN form is composed from the generated name; the
	// resource's own arn attribute is not used so that the policy and
	// the stream agree on one derivation.
	p.BucketArn = bucket.Bucket.ApplyT(func(name string) string {
		return pipeline.DirectoryBucketArn(env.Region, env.AccountID, name)
	}).(pulumi.StringOutput)

	p.TableLocation = bucket.Bucket.ApplyT(func(name string) string {
		return pipeline.TableLocation(name, spec.Catalog.Table)
	}).(pulumi.StringOutput)

	return nil
}
