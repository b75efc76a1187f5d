package main

import (
	"github.com/klothoplatform/tablestream/pkg/infra"
	"github.com/klothoplatform/tablestream/pkg/logging"
	"github.com/klothoplatform/tablestream/pkg/stack"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var previewConfig struct {
	stateDir string
	region   string
	stack    string
}

func newPreviewCmd() *cobra.Command {
	var previewCommand = &cobra.Command{
		Use:   "preview [spec file]",
		Short: "Preview the changes deploying a spec would make",
		Args:  cobra.ExactArgs(1),
		RunE:  preview,
	}
	flags := previewCommand.Flags()
	flags.StringVar(&previewConfig.stateDir, "state-directory", "", "State directory")
	flags.StringVarP(&previewConfig.region, "region", "r", "", "AWS region (overrides the spec)")
	flags.StringVar(&previewConfig.stack, "stack", "", "Stack name (defaults to the pipeline name)")
	return previewCommand
}

func preview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.GetLogger(ctx).Sugar()

	spec, err := loadSpec(args[0])
	if err != nil {
		return err
	}
	region := previewConfig.region
	if region == "" {
		region = spec.Region
	}

	stateDir, err := resolveStateDir(previewConfig.stateDir)
	if err != nil {
		return err
	}

	ref := newReference(stackName(previewConfig.stack, spec), region, stateDir)

	result, err := stack.RunPreview(ctx, afero.NewOsFs(), ref, infra.RunFunc(spec))
	if err != nil {
		return err
	}
	log.Infof("Preview of stack %s: %v", ref.Name, result.ChangeSummary)
	return nil
}
