package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectoryBucketName(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(
		"my-s3-table-bucket--use1-az4--x-s3",
		DirectoryBucketName("my-s3-table-bucket", "use1-az4"),
	)
}

func TestValidAvailabilityZoneID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"use1-az4", true},
		{"usw2-az1", true},
		{"apne1-az2", true},
		{"us-east-1a", false},
		{"use1az4", false},
		{"USE1-AZ4", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.valid, ValidAvailabilityZoneID(tt.id))
		})
	}
}

func TestArnDerivations(t *testing.T) {
	assert := assert.New(t)

	bucket := "my-s3-table-bucket--use1-az4--x-s3"

	assert.Equal(
		"arn:aws:s3express:us-east-1:123456789012:bucket/"+bucket,
		DirectoryBucketArn("us-east-1", "123456789012", bucket),
	)
	assert.Equal(
		"s3express://"+bucket+"/web_events/",
		TableLocation(bucket, "web_events"),
	)
	assert.Equal(
		"s3express://"+bucket+"/firehose-errors/",
		ErrorOutputLocation(bucket, "firehose-errors/"),
	)

	assert.Equal(
		"arn:aws:glue:us-east-1:123456789012:catalog",
		GlueCatalogArn("us-east-1", "123456789012"),
	)
	assert.Equal(
		"arn:aws:glue:us-east-1:123456789012:database/s3_tables_db",
		GlueDatabaseArn("us-east-1", "123456789012", "s3_tables_db"),
	)
	assert.Equal(
		"arn:aws:glue:us-east-1:123456789012:table/s3_tables_db/web_events",
		GlueTableArn("us-east-1", "123456789012", "s3_tables_db", "web_events"),
	)

	assert.Equal(
		"/aws/kinesisfirehose/s3-tables-delivery-stream",
		FirehoseLogGroupName("s3-tables-delivery-stream"),
	)
	assert.Equal(
		"arn:aws:logs:us-east-1:123456789012:log-group:/aws/kinesisfirehose/s3-tables-delivery-stream:*",
		FirehoseLogGroupArn("us-east-1", "123456789012", "s3-tables-delivery-stream"),
	)
	assert.Equal(
		"/aws/lambda/partition-extractor",
		LambdaLogGroupName("partition-extractor"),
	)
}
