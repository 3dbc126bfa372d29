package pipeline

import (
	"context"
	"fmt"

	"xscribe/internal/logging"
	"xscribe/internal/services"
	"xscribe/internal/services/ytdlp"
)

func downloadMode(mode string) ytdlp.Mode {
	if mode == string(ytdlp.ModeVideo) {
		return ytdlp.ModeVideo
	}
	return ytdlp.ModeAudio
}

// BatchRequest is a sequential run over one or more inputs sharing the same
// flag set.
type BatchRequest struct {
	Inputs []string
	// Shared per-item settings; see Request.
	Model              string
	Language           string
	OutputPath         string
	Mode               string
	AudioFormat        string
	Item               int
	CookiesFromBrowser string
}

// Summary tallies a finished batch.
type Summary struct {
	Total     int
	Succeeded int
}

// Validate rejects argument combinations that cannot be satisfied. These are
// precondition failures: nothing has run yet, so they abort the invocation.
func (r BatchRequest) Validate() error {
	if len(r.Inputs) == 0 {
		return services.Wrap(services.ErrUsage, "batch", "validate", "at least one input required", nil)
	}
	if r.OutputPath != "" && len(r.Inputs) > 1 {
		return services.Wrap(services.ErrUsage, "batch", "validate",
			"explicit output path requires exactly one input", nil)
	}
	if r.Item > 0 {
		for _, input := range r.Inputs {
			if ClassifyInput(input) != KindRemoteReference {
				return services.Wrap(services.ErrUsage, "batch", "validate",
					fmt.Sprintf("selection index requires URL inputs, got %q", input), nil)
			}
		}
	}
	return nil
}

// RunBatch processes every input in order. Item failures are reported and
// skipped; precondition failures (usage, out-of-range selection) abort the
// remainder. The summary always reflects the items attempted.
func (p *Pipeline) RunBatch(ctx context.Context, req BatchRequest) (Summary, error) {
	if err := req.Validate(); err != nil {
		return Summary{}, err
	}

	summary := Summary{Total: len(req.Inputs)}
	for i, input := range req.Inputs {
		if len(req.Inputs) > 1 {
			fmt.Fprintf(p.out, "[%d/%d] %s\n", i+1, len(req.Inputs), input)
		}

		outcome, err := p.Run(ctx, Request{
			Input:              input,
			Model:              req.Model,
			Language:           req.Language,
			OutputPath:         req.OutputPath,
			Mode:               downloadMode(req.Mode),
			AudioFormat:        req.AudioFormat,
			Item:               req.Item,
			CookiesFromBrowser: req.CookiesFromBrowser,
		})
		if err != nil {
			if services.Fatal(err) {
				return summary, err
			}
			p.logger.Error("input failed", logging.String("input", input), logging.Error(err))
			fmt.Fprintf(p.out, "Failed: %s: %v\n", input, err)
			continue
		}

		summary.Succeeded++
		switch {
		case outcome.NoSpeech:
			fmt.Fprintf(p.out, "No speech detected in %s\n", input)
		default:
			fmt.Fprintf(p.out, "Saved %s\n", outcome.OutputPath)
		}
	}

	if summary.Total > 1 {
		fmt.Fprintf(p.out, "Done: %d/%d\n", summary.Succeeded, summary.Total)
	}
	return summary, nil
}
