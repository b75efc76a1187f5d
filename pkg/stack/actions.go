package stack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klothoplatform/tablestream/pkg/logging"
	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optdestroy"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optpreview"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optup"
	"github.com/pulumi/pulumi/sdk/v3/go/common/tokens"
	"github.com/pulumi/pulumi/sdk/v3/go/common/workspace"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Reference names the stack an action drives and where its state
// backend lives.
type Reference struct {
	Name    string
	Project string

	// AwsRegion pins the provider region. Empty leaves the provider's
	// own configuration in effect.
	AwsRegion string

	// StateDirectory overrides the default file backend location under
	// the tool's home directory.
	StateDirectory string
}

// StackInterface is the slice of auto.Stack the actions use, split out
// so tests can substitute a stack.
type StackInterface interface {
	Name() string
	SetConfig(ctx context.Context, key string, value auto.ConfigValue) error
	Up(ctx context.Context, opts ...optup.Option) (auto.UpResult, error)
	Preview(ctx context.Context, opts ...optpreview.Option) (auto.PreviewResult, error)
	Destroy(ctx context.Context, opts ...optdestroy.Option) (auto.DestroyResult, error)
	Outputs(ctx context.Context) (auto.OutputMap, error)
	Workspace() auto.Workspace
}

// Initialize creates or selects the named stack against a local file
// backend with an inline program. Secrets use the passphrase provider
// with an empty passphrase; nothing in the stack's configuration is
// sensitive.
func Initialize(ctx context.Context, fs afero.Fs, ref Reference, program pulumi.RunFunc) (StackInterface, error) {
	pulumiHomeDir, stateDir, err := ensureDirectories(fs, ref)
	if err != nil {
		return nil, err
	}

	proj := auto.Project(workspace.Project{
		Name:    tokens.PackageName(ref.Project),
		Runtime: workspace.NewProjectRuntimeInfo("go", nil),
		Backend: &workspace.ProjectBackend{
			URL: "file://" + stateDir,
		},
	})
	secretsProvider := auto.SecretsProvider("passphrase")
	envvars := auto.EnvVars(map[string]string{
		"PULUMI_CONFIG_PASSPHRASE": "",
	})
	stack, err := auto.UpsertStackInlineSource(ctx, ref.Name, ref.Project, program, proj, envvars, auto.PulumiHome(pulumiHomeDir), secretsProvider)
	if err != nil {
		return nil, fmt.Errorf("Failed to create or select stack: %w", err)
	}
	return &stack, nil
}

func ensureDirectories(fs afero.Fs, ref Reference) (string, string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("Failed to get user home directory: %w", err)
	}
	pulumiHomeDir := filepath.Join(homeDir, ".tablestream", "pulumi")

	if exists, err := afero.DirExists(fs, pulumiHomeDir); !exists || err != nil {
		if err := fs.MkdirAll(pulumiHomeDir, 0755); err != nil {
			return "", "", fmt.Errorf("Failed to create pulumi home directory: %w", err)
		}
	}

	stateDir := ref.StateDirectory
	if stateDir == "" {
		stateDir = filepath.Join(pulumiHomeDir, "state")
	}
	if exists, err := afero.DirExists(fs, stateDir); !exists || err != nil {
		if err := fs.MkdirAll(stateDir, 0755); err != nil {
			return "", "", fmt.Errorf("Failed to create stack state directory: %w", err)
		}
	}
	return pulumiHomeDir, stateDir, nil
}

// set stack configuration specifying the AWS region to deploy when the
// reference pins one
func configureStack(ctx context.Context, s StackInterface, ref Reference) error {
	if ref.AwsRegion == "" {
		return nil
	}
	if err := s.SetConfig(ctx, "aws:region", auto.ConfigValue{Value: ref.AwsRegion}); err != nil {
		return fmt.Errorf("Failed to set stack configuration: %w", err)
	}
	return nil
}

func RunUp(ctx context.Context, fs afero.Fs, ref Reference, program pulumi.RunFunc) (*auto.UpResult, *Outputs, error) {
	log := logging.GetLogger(ctx).Named("pulumi.up").Sugar()

	s, err := Initialize(ctx, fs, ref, program)
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("Created/Selected stack %q", ref.Name)

	if err := configureStack(ctx, s, ref); err != nil {
		return nil, nil, err
	}

	log.Debug("Starting update")

	upResult, err := s.Up(
		ctx,
		optup.ProgressStreams(logging.NewLoggerWriter(log.Desugar(), zap.InfoLevel)),
		optup.EventStreams(Events(ctx, "Deploying")),
		optup.Refresh(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("Failed to update stack: %w", err)
	}

	log.Infof("Successfully deployed stack %s", ref.Name)

	outputs, err := GetOutputs(ctx, s)
	if err != nil {
		return &upResult, nil, err
	}
	return &upResult, &outputs, nil
}

func RunPreview(ctx context.Context, fs afero.Fs, ref Reference, program pulumi.RunFunc) (*auto.PreviewResult, error) {
	log := logging.GetLogger(ctx).Named("pulumi.preview").Sugar()

	s, err := Initialize(ctx, fs, ref, program)
	if err != nil {
		return nil, err
	}
	log.Debugf("Created/Selected stack %q", ref.Name)

	if err := configureStack(ctx, s, ref); err != nil {
		return nil, err
	}

	log.Debug("Starting preview")

	previewResult, err := s.Preview(
		ctx,
		optpreview.ProgressStreams(logging.NewLoggerWriter(log.Desugar(), zap.InfoLevel)),
		optpreview.EventStreams(Events(ctx, "Previewing")),
		optpreview.Refresh(),
	)
	if err != nil {
		// Use the first line only, the rest of it is redundant with the first line or the live logging already shown
		firstLine := strings.Split(err.Error(), "\n")[0]
		return nil, fmt.Errorf("Failed to preview stack: %s", firstLine)
	}

	log.Infof("Successfully previewed stack %s", ref.Name)

	return &previewResult, nil
}

func RunDown(ctx context.Context, fs afero.Fs, ref Reference, program pulumi.RunFunc) error {
	log := logging.GetLogger(ctx).Named("pulumi.destroy").Sugar()

	s, err := Initialize(ctx, fs, ref, program)
	if err != nil {
		return err
	}
	log.Debugf("Created/Selected stack %q", ref.Name)

	if err := configureStack(ctx, s, ref); err != nil {
		return err
	}

	log.Debug("Starting destroy")

	// wire up our destroy to stream progress to stdout
	stdoutStreamer := optdestroy.ProgressStreams(logging.NewLoggerWriter(log.Desugar(), zap.InfoLevel))
	eventStream := optdestroy.EventStreams(Events(ctx, "Destroying"))
	refresh := optdestroy.Refresh()

	// run the destroy to remove our resources
	_, err = s.Destroy(ctx, stdoutStreamer, eventStream, refresh)
	if err != nil {
		return fmt.Errorf("Failed to destroy stack: %w", err)
	}

	log.Infof("Successfully destroyed stack %s", ref.Name)

	log.Infof("Removing stack %s", ref.Name)
	err = s.Workspace().RemoveStack(ctx, ref.Name)
	if err != nil {
		return fmt.Errorf("Failed to remove stack: %w", err)
	}
	return nil
}
