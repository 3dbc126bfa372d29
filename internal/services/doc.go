// Package services defines the error taxonomy and context plumbing shared by
// the external-tool clients and pipeline stages.
//
// Sentinel errors classify failures for the batch driver: stage-local
// failures (ErrNotFound, ErrExternalTool, ErrEngine) abort only the current
// input, while ErrOutOfRange and ErrUsage are fatal to the whole invocation.
// Wrap tags an error with one of these markers plus stage context so callers
// can classify with errors.Is without string matching.
package services
