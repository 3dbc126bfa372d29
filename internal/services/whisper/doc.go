// Package whisper integrates the external speech-recognition engine.
//
// The engine is consumed as a subprocess keyed by a model size selector. Its
// stdout is a lazy, single-pass sequence of timestamped segment lines plus a
// language-detection summary on stderr; Stream exposes that sequence one
// segment at a time so the caller can advance progress as speech is
// recognized. ModelStore owns the local ggml model cache, including the
// file-locked download path used by the setup command.
package whisper
