package infra

import (
	"github.com/klothoplatform/tablestream/pkg/awspolicy"
	"github.com/klothoplatform/tablestream/pkg/pipeline"
	"github.com/klothoplatform/tablestream/pkg/sanitization/aws"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/cloudwatch"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/lambda"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const lambdaBasicExecutionArn = "arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole"

// declareTransform creates the optional partition-extraction function.
// Dynamic partitioning needs the partition keys present in each record
// before the partitioning step runs; sources that do not carry them
// need this function to add them. Disabled transforms declare nothing.
func (p *Pipeline) declareTransform(ctx *pulumi.Context, spec pipeline.Spec) error {
	if !spec.Transform.Enabled {
		return nil
	}

	assume, err := awspolicy.ServiceAssumeRolePolicy("lambda.amazonaws.com").JSON()
	if err != nil {
		return err
	}

	role, err := iam.NewRole(ctx, "transformRole", &iam.RoleArgs{
		Name:             pulumi.String(aws.IamRoleSanitizer.Apply(spec.Name + "-transform-role")),
		AssumeRolePolicy: pulumi.String(assume),
	})
	if err != nil {
		return err
	}

	_, err = iam.NewRolePolicyAttachment(ctx, "transformBasicExecution", &iam.RolePolicyAttachmentArgs{
		Role:      role.Name,
		PolicyArn: pulumi.String(lambdaBasicExecutionArn),
	})
	if err != nil {
		return err
	}

	functionName := aws.LambdaFunctionSanitizer.Apply(spec.Name + "-partition-extractor")

	logGroup, err := cloudwatch.NewLogGroup(ctx, "transformLogs", &cloudwatch.LogGroupArgs{
		Name:            pulumi.String(pipeline.LambdaLogGroupName(functionName)),
		RetentionInDays: pulumi.Int(spec.Delivery.LogRetentionDays),
	})
	if err != nil {
		return err
	}

	function, err := lambda.NewFunction(ctx, "partitionExtractor", &lambda.FunctionArgs{
		Name:       pulumi.String(functionName),
		Role:       role.Arn,
		Code:       pulumi.NewFileArchive(spec.Transform.CodePath),
		Handler:    pulumi.String(spec.Transform.Handler),
		Runtime:    lambda.Runtime(spec.Transform.Runtime),
		Timeout:    pulumi.Int(spec.Transform.TimeoutSeconds),
		MemorySize: pulumi.Int(spec.Transform.MemoryMB),
	}, pulumi.DependsOn([]pulumi.Resource{logGroup}))
	if err != nil {
		return err
	}

	p.Transform = &transform{
		Function: function,
		Role:     role,
		LogGroup: logGroup,
	}
	return nil
}
