package main

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var outputsConfig struct {
	stateDir string
	stack    string
	format   string
}

func newOutputsCmd() *cobra.Command {
	var outputsCommand = &cobra.Command{
		Use:   "outputs [spec file]",
		Short: "Print the recorded outputs of a deployed pipeline",
		Args:  cobra.ExactArgs(1),
		RunE:  outputs,
	}
	flags := outputsCommand.Flags()
	flags.StringVar(&outputsConfig.stateDir, "state-directory", "", "State directory")
	flags.StringVar(&outputsConfig.stack, "stack", "", "Stack name (defaults to the pipeline name)")
	flags.StringVarP(&outputsConfig.format, "format", "f", "yaml", "Output format (yaml or json)")
	return outputsCommand
}

func outputs(cmd *cobra.Command, args []string) error {
	spec, err := loadSpec(args[0])
	if err != nil {
		return err
	}

	stateDir, err := resolveStateDir(outputsConfig.stateDir)
	if err != nil {
		return err
	}

	sm := newStateManager(afero.NewOsFs(), stateDir)
	if err := sm.LoadState(); err != nil {
		return fmt.Errorf("error loading state: %w", err)
	}

	name := stackName(outputsConfig.stack, spec)
	record, exists := sm.GetRecord(name)
	if !exists {
		return fmt.Errorf("pipeline %s not found in state", name)
	}
	if record.Outputs == nil {
		return fmt.Errorf("pipeline %s has no recorded outputs (status %s)", name, record.Status)
	}

	var rendered string
	switch outputsConfig.format {
	case "yaml":
		rendered, err = record.Outputs.YAML()
	case "json":
		rendered, err = record.Outputs.JSON()
	default:
		return fmt.Errorf("unsupported output format '%s'", outputsConfig.format)
	}
	if err != nil {
		return err
	}

	fmt.Println(strings.TrimSpace(rendered))
	return nil
}
