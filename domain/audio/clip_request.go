package audio

import (
	"path/filepath"
	"strconv"
	"strings"
)

// ClipExtension is the extension of every clip written by the trimming tool
const ClipExtension = ".wav"

// ClipRequest represents one trim of a source recording into a clip
type ClipRequest struct {
	SourcePath string
	Index      int // 0-based position in the range table
	Range      Range
}

// OutputFilename returns the clip filename in <basename>-<n>.wav format
func (r *ClipRequest) OutputFilename() string {
	return ClipFilename(r.SourcePath, r.Index)
}

// TrimArgs returns the trim effect arguments: the start and the absolute end
func (r *ClipRequest) TrimArgs() []string {
	return []string{FormatSeconds(r.Range.Start), "=" + FormatSeconds(r.Range.End)}
}

// Basename strips the directory and the final extension from a path.
// A name that is only an extension, such as ".hidden", is kept whole.
func Basename(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

// ClipFilename returns the clip filename for the range at index of the given source
func ClipFilename(sourcePath string, index int) string {
	return Basename(sourcePath) + "-" + strconv.Itoa(index+1) + ClipExtension
}
