package infra

import (
	"github.com/klothoplatform/tablestream/pkg/awspolicy"
	"github.com/klothoplatform/tablestream/pkg/pipeline"
	"github.com/klothoplatform/tablestream/pkg/sanitization/aws"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// declareIdentity creates the role the delivery stream assumes and a
// policy scoped to exactly what delivery touches: session writes into
// the bucket, schema lookups (and commits) against the catalog, the
// transform function when one is declared, and the stream's log group.
//
// The document is assembled inside an apply over the resource outputs
// rather than from re-derived names, so a renamed or recreated resource
// can never leave the policy pointing at a stale identifier.
func (p *Pipeline) declareIdentity(ctx *pulumi.Context, spec pipeline.Spec, env environment) error {
	assume, err := awspolicy.ServiceAssumeRolePolicy("firehose.amazonaws.com").JSON()
	if err != nil {
		return err
	}

	role, err := iam.NewRole(ctx, "deliveryRole", &iam.RoleArgs{
		Name:             pulumi.String(aws.IamRoleSanitizer.Apply(spec.Name + "-delivery-role")),
		AssumeRolePolicy: pulumi.String(assume),
	})
	if err != nil {
		return err
	}
	p.DeliveryRole = role

	outputs := []interface{}{p.BucketArn, p.Database.CatalogId, p.Database.Name, p.Table.Name}
	if p.Transform != nil {
		outputs = append(outputs, p.Transform.Function.Arn)
	}

	document := pulumi.All(outputs...).ApplyT(func(args []interface{}) (string, error) {
		bucketArn := args[0].(string)
		catalogID := args[1].(string)
		database := args[2].(string)
		table := args[3].(string)

		doc := &awspolicy.PolicyDocument{Version: awspolicy.Version}
		doc.Append(
			awspolicy.Allow(
				[]string{"s3express:CreateSession", "s3express:PutObject"},
				[]string{bucketArn, bucketArn + "/*"},
			),
			awspolicy.Allow(
				[]string{"glue:GetDatabase", "glue:GetTable", "glue:UpdateTable"},
				[]string{
					pipeline.GlueCatalogArn(env.Region, catalogID),
					pipeline.GlueDatabaseArn(env.Region, catalogID, database),
					pipeline.GlueTableArn(env.Region, catalogID, database, table),
				},
			),
		)
		if len(args) > 4 {
			doc.Append(awspolicy.Allow(
				[]string{"lambda:InvokeFunction", "lambda:GetFunctionConfiguration"},
				[]string{args[4].(string)},
			))
		}
		doc.Append(awspolicy.Allow(
			[]string{"logs:CreateLogGroup", "logs:CreateLogStream", "logs:PutLogEvents"},
			[]string{pipeline.FirehoseLogGroupArn(env.Region, env.AccountID, spec.Delivery.StreamName)},
		))
		return doc.JSON()
	}).(pulumi.StringOutput)

	policy, err := iam.NewPolicy(ctx, "deliveryPolicy", &iam.PolicyArgs{
		Name:   pulumi.String(aws.IamPolicySanitizer.Apply(spec.Name + "-delivery-policy")),
		Policy: document,
	})
	if err != nil {
		return err
	}
	p.DeliveryPolicy = policy

	attachment, err := iam.NewRolePolicyAttachment(ctx, "deliveryPolicyAttachment", &iam.RolePolicyAttachmentArgs{
		Role:      role.Name,
		PolicyArn: policy.Arn,
	})
	if err != nil {
		return err
	}
	p.PolicyAttachment = attachment
	return nil
}
