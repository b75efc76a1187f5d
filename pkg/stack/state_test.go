package stack

import (
	"testing"

	"github.com/google/uuid"
	"github.com/klothoplatform/tablestream/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStateFile = "/state/deployments.yaml"

func TestLoadState(t *testing.T) {
	assert := assert.New(t)

	fs := afero.NewMemMapFs()
	contents := testutil.UnIndent(`
		schemaVersion: 1
		pipelines:
		  click-stream:
		    id: 123e4567-e89b-12d3-a456-426614174000
		    region: us-east-1
		    status: create_complete
		    outputs:
		      s3_express_bucket_name: click-stream--use1-az4--x-s3`)
	require.NoError(t, afero.WriteFile(fs, testStateFile, []byte(contents), 0644))

	sm := NewStateManager(fs, testStateFile)
	require.NoError(t, sm.LoadState())

	r, exists := sm.GetRecord("click-stream")
	require.True(t, exists)
	assert.Equal(uuid.MustParse("123e4567-e89b-12d3-a456-426614174000"), r.ID.UUID)
	assert.Equal("us-east-1", r.Region)
	assert.Equal(StatusCreateComplete, r.Status)
	require.NotNil(t, r.Outputs)
	assert.Equal("click-stream--use1-az4--x-s3", r.Outputs.BucketName)
}

func TestLoadStateMissingFile(t *testing.T) {
	sm := NewStateManager(afero.NewMemMapFs(), testStateFile)
	require.NoError(t, sm.LoadState())
	assert.Empty(t, sm.GetAllRecords())
	assert.False(t, sm.CheckStateFileExists())
}

func TestStateRoundTrip(t *testing.T) {
	assert := assert.New(t)

	fs := afero.NewMemMapFs()
	sm := NewStateManager(fs, testStateFile)

	started, err := sm.StartDeployment("click-stream", "us-west-2")
	require.NoError(t, err)
	_, err = sm.Complete("click-stream", "succeeded", &Outputs{BucketName: "click-stream--usw2-az1--x-s3"})
	require.NoError(t, err)
	require.NoError(t, sm.SaveState())
	assert.True(sm.CheckStateFileExists())

	reloaded := NewStateManager(fs, testStateFile)
	require.NoError(t, reloaded.LoadState())

	r, exists := reloaded.GetRecord("click-stream")
	require.True(t, exists)
	assert.Equal(started.ID, r.ID)
	assert.Equal("us-west-2", r.Region)
	assert.Equal(StatusCreateComplete, r.Status)
	require.NotNil(t, r.Outputs)
	assert.Equal("click-stream--usw2-az1--x-s3", r.Outputs.BucketName)
}

func TestStartDeployment(t *testing.T) {
	tests := []struct {
		name     string
		current  DeploymentStatus
		expected DeploymentStatus
		wantErr  bool
	}{
		{name: "new pipeline", current: "", expected: StatusCreating},
		{name: "retry interrupted create", current: StatusCreating, expected: StatusCreating},
		{name: "retry failed create", current: StatusCreateFailed, expected: StatusCreating},
		{name: "redeploy after create", current: StatusCreateComplete, expected: StatusUpdating},
		{name: "redeploy after update", current: StatusUpdateComplete, expected: StatusUpdating},
		{name: "retry failed update", current: StatusUpdateFailed, expected: StatusUpdating},
		{name: "recreate after delete", current: StatusDeleteComplete, expected: StatusCreating},
		{name: "deploy while deleting", current: StatusDeleting, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)

			sm := NewStateManager(afero.NewMemMapFs(), testStateFile)
			if tt.current != "" {
				sm.SetRecord("pipe", Record{ID: NewUUID(), Status: tt.current})
			}

			r, err := sm.StartDeployment("pipe", "us-east-1")
			if tt.wantErr {
				assert.Error(err)
				return
			}
			require.NoError(t, err)
			assert.Equal(tt.expected, r.Status)
			assert.Equal("us-east-1", r.Region)
			assert.NotEmpty(r.LastUpdated)
		})
	}
}

func TestStartDestroy(t *testing.T) {
	tests := []struct {
		name    string
		current DeploymentStatus
		wantErr bool
	}{
		{name: "destroy deployed pipeline", current: StatusCreateComplete},
		{name: "destroy updated pipeline", current: StatusUpdateComplete},
		{name: "destroy failed create", current: StatusCreateFailed},
		{name: "retry interrupted destroy", current: StatusDeleting},
		{name: "destroy while creating", current: StatusCreating, wantErr: true},
		{name: "no record", current: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)

			sm := NewStateManager(afero.NewMemMapFs(), testStateFile)
			if tt.current != "" {
				sm.SetRecord("pipe", Record{ID: NewUUID(), Status: tt.current})
			}

			r, err := sm.StartDestroy("pipe")
			if tt.wantErr {
				assert.Error(err)
				return
			}
			require.NoError(t, err)
			assert.Equal(StatusDeleting, r.Status)
		})
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name        string
		current     DeploymentStatus
		result      string
		outputs     *Outputs
		expected    DeploymentStatus
		wantOutputs bool
		wantErr     bool
	}{
		{
			name:        "create succeeded",
			current:     StatusCreating,
			result:      "succeeded",
			outputs:     &Outputs{BucketName: "b--use1-az4--x-s3"},
			expected:    StatusCreateComplete,
			wantOutputs: true,
		},
		{
			name:     "create failed",
			current:  StatusCreating,
			result:   "failed",
			expected: StatusCreateFailed,
		},
		{
			name:        "update succeeded",
			current:     StatusUpdating,
			result:      "succeeded",
			outputs:     &Outputs{BucketName: "b--use1-az4--x-s3"},
			expected:    StatusUpdateComplete,
			wantOutputs: true,
		},
		{
			name:     "delete succeeded drops outputs",
			current:  StatusDeleting,
			result:   "succeeded",
			expected: StatusDeleteComplete,
		},
		{
			name:     "delete failed",
			current:  StatusDeleting,
			result:   "failed",
			expected: StatusDeleteFailed,
		},
		{
			name:    "settled record",
			current: StatusCreateComplete,
			result:  "succeeded",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)

			sm := NewStateManager(afero.NewMemMapFs(), testStateFile)
			sm.SetRecord("pipe", Record{
				ID:      NewUUID(),
				Status:  tt.current,
				Outputs: &Outputs{BucketName: "stale--use1-az4--x-s3"},
			})

			r, err := sm.Complete("pipe", tt.result, tt.outputs)
			if tt.wantErr {
				assert.Error(err)
				return
			}
			require.NoError(t, err)
			assert.Equal(tt.expected, r.Status)
			if tt.wantOutputs {
				require.NotNil(t, r.Outputs)
				assert.Equal(tt.outputs.BucketName, r.Outputs.BucketName)
			} else if tt.expected == StatusDeleteComplete {
				assert.Nil(r.Outputs)
			}
		})
	}
}

func TestNextStatus(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(StatusCreateComplete, NextStatus(StatusCreating, "succeeded"))
	assert.Equal(StatusCreateFailed, NextStatus(StatusCreating, "failed"))
	assert.Equal(StatusUpdateComplete, NextStatus(StatusUpdating, "succeeded"))
	assert.Equal(StatusUpdateFailed, NextStatus(StatusUpdating, "canceled"))
	assert.Equal(StatusDeleteComplete, NextStatus(StatusDeleting, "succeeded"))
	assert.Equal(StatusDeleteFailed, NextStatus(StatusDeleting, "failed"))
	assert.Equal(StatusUnknown, NextStatus(StatusCreateComplete, "succeeded"))
}
