package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/klothoplatform/tablestream/pkg/cleanup"
	clicommon "github.com/klothoplatform/tablestream/pkg/cli_common"
	"github.com/spf13/cobra"
)

var commonCfg struct {
	clicommon.CommonConfig
	dryRun bool
}

func cli() {
	// Set up signal and panic handling to ensure cleanup is executed
	ctx := cleanup.InitializeHandler(context.Background())
	defer func() {
		if r := recover(); r != nil {
			_ = cleanup.Execute(syscall.SIGTERM)
			panic(r) // re-throw panic after cleanup
		}
	}()

	var rootCmd = &cobra.Command{
		Use:   "tablestream",
		Short: "Declare and deploy S3 Express ingestion pipelines",
	}
	clicommon.SetupRoot(rootCmd, &commonCfg.CommonConfig)
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&commonCfg.dryRun, "dry-run", "n", false, "Validate and preview without deploying")

	rootCmd.AddCommand(newUpCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newDownCmd())
	rootCmd.AddCommand(newOutputsCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	cli()
}
