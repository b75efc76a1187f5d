package pipeline

import "fmt"

// Identifier derivations mandated by the provider. Everything here is
// pure string formatting over values the resources generate, kept out
// of the declaration code so the formats are unit-testable.

// DirectoryBucketArn is the zonal bucket ARN. Note the s3express
// service namespace; the generic s3 ARN form does not address these
// buckets.
func DirectoryBucketArn(region, accountID, bucketName string) string {
	return fmt.Sprintf("arn:aws:s3express:%s:%s:bucket/%s", region, accountID, bucketName)
}

// TableLocation is the storage location recorded on the catalog table.
// The trailing slash matters: the delivery prefix must write under
// exactly this path.
func TableLocation(bucketName, table string) string {
	return fmt.Sprintf("s3express://%s/%s/", bucketName, table)
}

// ErrorOutputLocation is where the delivery stream lands records it
// could not convert or deliver.
func ErrorOutputLocation(bucketName, prefix string) string {
	return fmt.Sprintf("s3express://%s/%s", bucketName, prefix)
}

func GlueCatalogArn(region, catalogID string) string {
	return fmt.Sprintf("arn:aws:glue:%s:%s:catalog", region, catalogID)
}

func GlueDatabaseArn(region, catalogID, database string) string {
	return fmt.Sprintf("arn:aws:glue:%s:%s:database/%s", region, catalogID, database)
}

func GlueTableArn(region, catalogID, database, table string) string {
	return fmt.Sprintf("arn:aws:glue:%s:%s:table/%s/%s", region, catalogID, database, table)
}

// FirehoseLogGroupName is the conventional log group the delivery
// service writes to when logging is enabled.
func FirehoseLogGroupName(stream string) string {
	return fmt.Sprintf("/aws/kinesisfirehose/%s", stream)
}

// FirehoseLogGroupArn covers the log group and all of its streams, the
// resource form the delivery role's logs statement wants.
func FirehoseLogGroupArn(region, accountID, stream string) string {
	return fmt.Sprintf("arn:aws:logs:%s:%s:log-group:%s:*", region, accountID, FirehoseLogGroupName(stream))
}

// LambdaLogGroupName is the conventional log group for a function's
// execution logs.
func LambdaLogGroupName(function string) string {
	return fmt.Sprintf("/aws/lambda/%s", function)
}
