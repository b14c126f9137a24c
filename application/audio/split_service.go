package audio

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"separate-songs/domain/audio"
)

// ClipResult contains the outcome of one trim
type ClipResult struct {
	Request    *audio.ClipRequest
	OutputPath string
	Err        error
}

// SplitService splits recordings into one clip per fixed range
type SplitService struct {
	trimmer audio.Trimmer
	ranges  []audio.Range
	output  io.Writer
	logger  *slog.Logger
}

// SplitOption is a functional option for configuring SplitService
type SplitOption func(*SplitService)

// WithRanges replaces the range table (for testing)
func WithRanges(ranges []audio.Range) SplitOption {
	return func(s *SplitService) {
		s.ranges = ranges
	}
}

// WithLogger sets the logger used for trim diagnostics
func WithLogger(logger *slog.Logger) SplitOption {
	return func(s *SplitService) {
		s.logger = logger
	}
}

// NewSplitService creates a new SplitService writing progress lines to output
func NewSplitService(trimmer audio.Trimmer, output io.Writer, opts ...SplitOption) *SplitService {
	table := audio.SongRanges()
	s := &SplitService{
		trimmer: trimmer,
		ranges:  table[:],
		output:  output,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.output == nil {
		s.output = io.Discard
	}

	return s
}

// Plan derives every clip request in execution order: inputs outer, ranges inner
func (s *SplitService) Plan(inputs []string) []*audio.ClipRequest {
	reqs := make([]*audio.ClipRequest, 0, len(inputs)*len(s.ranges))
	for _, input := range inputs {
		for i, r := range s.ranges {
			reqs = append(reqs, &audio.ClipRequest{
				SourcePath: input,
				Index:      i,
				Range:      r,
			})
		}
	}
	return reqs
}

// Split trims every input into one clip per range.
// A failed trim is recorded in its result and never stops the run.
func (s *SplitService) Split(ctx context.Context, inputs []string) []ClipResult {
	reqs := s.Plan(inputs)
	results := make([]ClipResult, 0, len(reqs))

	for _, req := range reqs {
		outputPath := req.OutputFilename()

		// Printed before the trim so it does not depend on the outcome
		fmt.Fprintf(s.output, "%s => %s (length %s)\n",
			req.SourcePath, outputPath, audio.FormatMinutes(req.Range.Minutes()))

		err := s.trimmer.Trim(ctx, req)
		if err != nil {
			s.logger.DebugContext(ctx, "trim failed",
				slog.String("input", req.SourcePath),
				slog.String("output", outputPath),
				slog.String("range", req.Range.String()),
				slog.String("error", err.Error()),
			)
		}

		results = append(results, ClipResult{
			Request:    req,
			OutputPath: outputPath,
			Err:        err,
		})
	}

	return results
}

// Failed returns the results whose trim reported an error
func Failed(results []ClipResult) []ClipResult {
	var failed []ClipResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
