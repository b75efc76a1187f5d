package aws

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DirectoryBucketBaseSanitizer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid name unchanged",
			input: "clickstream-events",
			want:  "clickstream-events",
		},
		{
			name:  "invalid characters replaced",
			input: "click_stream.events",
			want:  "click-stream-events",
		},
		{
			name:  "repeated hyphens collapsed",
			input: "click--stream",
			want:  "click-stream",
		},
		{
			name:  "leading and trailing hyphens stripped",
			input: "-clickstream-",
			want:  "clickstream",
		},
		{
			name:  "long names truncated",
			input: strings.Repeat("a", 80),
			want:  strings.Repeat("a", 46),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.want, DirectoryBucketBaseSanitizer.Apply(tt.input))
		})
	}
}

func Test_GlueNameSanitizer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid name unchanged",
			input: "iceberg_table",
			want:  "iceberg_table",
		},
		{
			name:  "hyphens and dots replaced",
			input: "iceberg-table.v2",
			want:  "iceberg_table_v2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.want, GlueNameSanitizer.Apply(tt.input))
		})
	}
}

func Test_FirehoseStreamSanitizer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid name unchanged",
			input: "PUT-S3-clickstream",
			want:  "PUT-S3-clickstream",
		},
		{
			name:  "invalid characters stripped",
			input: "PUT S3/clickstream",
			want:  "PUTS3clickstream",
		},
		{
			name:  "long names truncated",
			input: strings.Repeat("s", 100),
			want:  strings.Repeat("s", 64),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.want, FirehoseStreamSanitizer.Apply(tt.input))
		})
	}
}

func Test_IamRoleSanitizer(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("firehose_role", IamRoleSanitizer.Apply("firehose role"))
	assert.Equal("firehose@role-x", IamRoleSanitizer.Apply("firehose@role-x"))
}

func Test_CloudwatchLogStreamSanitizer(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("S3ExpressDelivery", CloudwatchLogStreamSanitizer.Apply("S3ExpressDelivery"))
	assert.Equal("S3_Express_Delivery", CloudwatchLogStreamSanitizer.Apply("S3:Express*Delivery"))
}
