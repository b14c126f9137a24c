package audio

import "context"

// Trimmer defines the interface for audio trimming operations
// This is a port that can be implemented by different infrastructure adapters
type Trimmer interface {
	// Trim cuts the source recording to the request's range and writes the clip
	Trim(ctx context.Context, req *ClipRequest) error
}

// FileChecker defines the interface for checking file existence
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}
