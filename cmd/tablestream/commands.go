package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klothoplatform/tablestream/pkg/pipeline"
	"github.com/klothoplatform/tablestream/pkg/stack"
	"github.com/spf13/afero"
)

const (
	projectName         = "tablestream"
	deploymentsFileName = "deployments.yaml"
)

// loadSpec reads the pipeline spec at path, fills defaults, and
// validates it.
func loadSpec(path string) (pipeline.Spec, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return pipeline.Spec{}, err
	}
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return pipeline.Spec{}, err
	}

	spec, err := pipeline.ReadSpec(absolutePath)
	if err != nil {
		return pipeline.Spec{}, err
	}
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return pipeline.Spec{}, fmt.Errorf("invalid pipeline spec %s:\n%w", path, err)
	}
	return spec, nil
}

func stackName(override string, spec pipeline.Spec) string {
	if override != "" {
		return override
	}
	return spec.Name
}

// resolveStateDir picks the directory holding the deployment record
// and the local backend, defaulting under the user's home.
func resolveStateDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".tablestream"), nil
}

func newStateManager(fs afero.Fs, stateDir string) *stack.StateManager {
	return stack.NewStateManager(fs, filepath.Join(stateDir, deploymentsFileName))
}

func newReference(name, region, stateDir string) stack.Reference {
	return stack.Reference{
		Name:           name,
		Project:        projectName,
		AwsRegion:      region,
		StateDirectory: filepath.Join(stateDir, "pulumi", "state"),
	}
}
