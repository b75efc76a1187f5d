package main

import (
	"fmt"
	"syscall"

	"github.com/klothoplatform/tablestream/pkg/cleanup"
	"github.com/klothoplatform/tablestream/pkg/infra"
	"github.com/klothoplatform/tablestream/pkg/logging"
	"github.com/klothoplatform/tablestream/pkg/stack"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var upConfig struct {
	stateDir string
	region   string
	stack    string
}

func newUpCmd() *cobra.Command {
	var upCommand = &cobra.Command{
		Use:   "up [spec file]",
		Short: "Deploy the pipeline a spec file declares",
		Args:  cobra.ExactArgs(1),
		RunE:  up,
	}
	flags := upCommand.Flags()
	flags.StringVar(&upConfig.stateDir, "state-directory", "", "State directory")
	flags.StringVarP(&upConfig.region, "region", "r", "", "AWS region (overrides the spec)")
	flags.StringVar(&upConfig.stack, "stack", "", "Stack name (defaults to the pipeline name)")
	return upCommand
}

func up(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.GetLogger(ctx).Sugar()

	spec, err := loadSpec(args[0])
	if err != nil {
		return err
	}
	region := upConfig.region
	if region == "" {
		region = spec.Region
	}

	stateDir, err := resolveStateDir(upConfig.stateDir)
	if err != nil {
		return err
	}

	osfs := afero.NewOsFs()
	ref := newReference(stackName(upConfig.stack, spec), region, stateDir)

	if commonCfg.dryRun {
		_, err := stack.RunPreview(ctx, osfs, ref, infra.RunFunc(spec))
		return err
	}

	sm := newStateManager(osfs, stateDir)
	if err := sm.LoadState(); err != nil {
		return fmt.Errorf("error loading state: %w", err)
	}

	record, err := sm.StartDeployment(ref.Name, region)
	if err != nil {
		return err
	}
	if err := sm.SaveState(); err != nil {
		return fmt.Errorf("error saving state: %w", err)
	}

	// An interrupted run still settles the record before the process
	// dies.
	cleanup.OnKill(func(signal syscall.Signal) error {
		r, exists := sm.GetRecord(ref.Name)
		if !exists {
			return nil
		}
		switch r.Status {
		case stack.StatusCreating, stack.StatusUpdating:
			if _, err := sm.Complete(ref.Name, "canceled", nil); err != nil {
				return err
			}
			return sm.SaveState()
		}
		return nil
	})

	log.Infof("Deploying pipeline %s (deployment %s)", ref.Name, record.ID)

	result, outputs, upErr := stack.RunUp(ctx, osfs, ref, infra.RunFunc(spec))

	resultStr := "failed"
	if upErr == nil && result != nil {
		resultStr = result.Summary.Result
	}
	// The kill callback may have settled the record already.
	if r, exists := sm.GetRecord(ref.Name); exists && (r.Status == stack.StatusCreating || r.Status == stack.StatusUpdating) {
		if _, err := sm.Complete(ref.Name, resultStr, outputs); err != nil {
			log.Warnf("Failed to record deployment result: %v", err)
		}
		if err := sm.SaveState(); err != nil {
			log.Warnf("Failed to save state: %v", err)
		}
	}
	if upErr != nil {
		return upErr
	}

	if outputs != nil {
		rendered, err := outputs.YAML()
		if err != nil {
			return err
		}
		log.Infof("Pipeline outputs:\n%s", rendered)
	}
	return nil
}
