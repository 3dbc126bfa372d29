package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"xscribe/internal/pipeline"
	"xscribe/internal/services"
	"xscribe/internal/supervisor"
)

func newRootCommand(sup *supervisor.Supervisor) *cobra.Command {
	var configFlag string
	ctx := newCommandContext(&configFlag)

	var (
		model              string
		language           string
		outputPath         string
		mode               string
		audioFormat        string
		item               int
		listOnly           bool
		cookiesFromBrowser string
	)

	rootCmd := &cobra.Command{
		Use:           "xscribe [flags] <path-or-url>...",
		Short:         "Transcribe local media files and remote streams to timestamped markdown",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			cfg, logger, err := ctx.ensure()
			if err != nil {
				return err
			}
			if mode != "audio" && mode != "video" {
				return services.Wrap(services.ErrUsage, "cli", "flags",
					fmt.Sprintf("--mode must be audio or video, got %q", mode), nil)
			}

			p, err := pipeline.New(cfg, sup,
				pipeline.WithLogger(logger),
				pipeline.WithOutput(cmd.OutOrStdout()))
			if err != nil {
				return err
			}

			if listOnly {
				if len(args) != 1 {
					return services.Wrap(services.ErrUsage, "cli", "flags",
						"--list requires exactly one URL", nil)
				}
				return runList(cmd, p, args[0])
			}

			summary, err := p.RunBatch(cmd.Context(), pipeline.BatchRequest{
				Inputs:             args,
				Model:              model,
				Language:           language,
				OutputPath:         outputPath,
				Mode:               mode,
				AudioFormat:        audioFormat,
				Item:               item,
				CookiesFromBrowser: cookiesFromBrowser,
			})
			if err != nil {
				return err
			}
			if summary.Succeeded == 0 {
				return errors.New("no inputs transcribed successfully")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVarP(&model, "model", "m", "", "Speech model size (tiny, base, small, medium, large-v3)")
	rootCmd.Flags().StringVarP(&language, "lang", "l", "", "Force a language code instead of auto-detection")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output document path (single input only)")
	rootCmd.Flags().StringVar(&mode, "mode", "audio", "Download mode: audio or video")
	rootCmd.Flags().StringVar(&audioFormat, "audio-format", "", "Transcode audio downloads to this format (e.g. mp3)")
	rootCmd.Flags().IntVarP(&item, "item", "i", 0, "Select a candidate by 1-based index (URL inputs only)")
	rootCmd.Flags().BoolVar(&listOnly, "list", false, "List resolved candidates without transcribing")
	rootCmd.Flags().StringVar(&cookiesFromBrowser, "cookies-from-browser", "", "Reuse a browser's cookies for the download tool")

	rootCmd.AddCommand(newSetupCommand(ctx, sup))
	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func runList(cmd *cobra.Command, p *pipeline.Pipeline, referenceURL string) error {
	candidates, err := p.ListCandidates(cmd.Context(), referenceURL)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No playable candidates found")
		return nil
	}

	rows := make([][]string, 0, len(candidates))
	for _, candidate := range candidates {
		title := candidate.Title
		if title == "" {
			title = candidate.URL
		}
		rows = append(rows, []string{
			strconv.Itoa(candidate.Index),
			title,
			string(candidate.Origin),
			candidate.URL,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"#", "Title", "Origin", "URL"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	))
	return nil
}
