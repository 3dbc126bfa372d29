package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"xscribe/internal/progress"
	"xscribe/internal/services/whisper"
	"xscribe/internal/supervisor"
)

func newSetupCommand(ctx *commandContext, sup *supervisor.Supervisor) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Download a speech model into the local cache",
		Long: "Fetches the requested model into the cache directory so the first\n" +
			"transcription does not stall on a large download. Already-cached models\n" +
			"are left untouched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := ctx.ensure()
			if err != nil {
				return err
			}
			size := strings.TrimSpace(model)
			if size == "" {
				size = cfg.Transcription.Model
			}
			store := whisper.NewModelStore(cfg.ModelCacheDir())
			return runModelSetup(cmd.Context(), sup, store, size, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Model size to fetch (default: configured model)")
	return cmd
}

// runModelSetup fetches the model unless cached. The spinner is registered
// with the supervisor for the duration of the download so an interrupt stops
// it and prints the interrupted line.
func runModelSetup(ctx context.Context, sup *supervisor.Supervisor, store *whisper.ModelStore, size string, out io.Writer, spinnerOpts ...progress.Option) error {
	if store.Cached(size) {
		fmt.Fprintf(out, "Model %s already cached\n", size)
		return nil
	}

	spinner := progress.New("Downloading model "+size, 0, spinnerOpts...)
	sup.SetReporter(spinner)
	spinner.Start()

	path, err := store.Ensure(ctx, size)
	sup.SetReporter(nil)
	if err != nil {
		spinner.Stop("Model download failed")
		return err
	}
	spinner.Stop("Model ready: " + path)
	return nil
}
