package main

import (
	"fmt"

	"github.com/klothoplatform/tablestream/pkg/infra"
	"github.com/klothoplatform/tablestream/pkg/logging"
	"github.com/klothoplatform/tablestream/pkg/stack"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var downConfig struct {
	stateDir string
	region   string
	stack    string
}

func newDownCmd() *cobra.Command {
	var downCommand = &cobra.Command{
		Use:   "down [spec file]",
		Short: "Destroy a deployed pipeline",
		Args:  cobra.ExactArgs(1),
		RunE:  down,
	}
	flags := downCommand.Flags()
	flags.StringVar(&downConfig.stateDir, "state-directory", "", "State directory")
	flags.StringVarP(&downConfig.region, "region", "r", "", "AWS region (overrides the spec)")
	flags.StringVar(&downConfig.stack, "stack", "", "Stack name (defaults to the pipeline name)")
	return downCommand
}

func down(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.GetLogger(ctx).Sugar()

	spec, err := loadSpec(args[0])
	if err != nil {
		return err
	}

	stateDir, err := resolveStateDir(downConfig.stateDir)
	if err != nil {
		return err
	}

	osfs := afero.NewOsFs()
	sm := newStateManager(osfs, stateDir)
	if !sm.CheckStateFileExists() {
		return fmt.Errorf("no deployment state found under %s", stateDir)
	}
	if err := sm.LoadState(); err != nil {
		return fmt.Errorf("error loading state: %w", err)
	}

	name := stackName(downConfig.stack, spec)
	record, exists := sm.GetRecord(name)
	if !exists {
		return fmt.Errorf("pipeline %s not found in state", name)
	}

	region := downConfig.region
	if region == "" {
		region = spec.Region
	}
	if region == "" {
		region = record.Region
	}

	if commonCfg.dryRun {
		log.Infof("Dry run: would destroy stack %s (deployment %s)", name, record.ID)
		return nil
	}

	if _, err := sm.StartDestroy(name); err != nil {
		return err
	}
	if err := sm.SaveState(); err != nil {
		return fmt.Errorf("error saving state: %w", err)
	}

	log.Infof("Destroying pipeline %s (deployment %s)", name, record.ID)

	ref := newReference(name, region, stateDir)
	downErr := stack.RunDown(ctx, osfs, ref, infra.RunFunc(spec))

	resultStr := "succeeded"
	if downErr != nil {
		resultStr = "failed"
	}
	if _, err := sm.Complete(name, resultStr, nil); err != nil {
		log.Warnf("Failed to record destroy result: %v", err)
	}
	if err := sm.SaveState(); err != nil {
		log.Warnf("Failed to save state: %v", err)
	}
	return downErr
}
