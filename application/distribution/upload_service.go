package distribution

import (
	"context"
	"fmt"
	"io"

	"separate-songs/domain/audio"
	"separate-songs/domain/distribution"
)

// UploadService publishes clips to Google Drive
type UploadService struct {
	driveClient distribution.DriveClient
	fileChecker audio.FileChecker
	folderID    string
	output      io.Writer
}

// NewUploadService creates a new upload service
func NewUploadService(client distribution.DriveClient, fileChecker audio.FileChecker, folderID string, output io.Writer) *UploadService {
	if output == nil {
		output = io.Discard
	}
	return &UploadService{
		driveClient: client,
		fileChecker: fileChecker,
		folderID:    folderID,
		output:      output,
	}
}

// ClipUpload pairs a clip filename with its upload result
type ClipUpload struct {
	ClipPath string
	Result   *distribution.UploadResult
}

// UploadClips uploads every clip derived from the given recordings.
// Clips that were never produced are skipped with a notice.
func (s *UploadService) UploadClips(ctx context.Context, inputs []string) ([]ClipUpload, error) {
	var uploads []ClipUpload

	for _, input := range inputs {
		for i := 0; i < audio.SongCount; i++ {
			clip := audio.ClipFilename(input, i)

			if !s.fileChecker.Exists(clip) {
				fmt.Fprintf(s.output, "Skipping %s: clip not found\n", clip)
				continue
			}

			result, err := s.UploadClip(ctx, clip)
			if err != nil {
				return uploads, err
			}
			uploads = append(uploads, ClipUpload{ClipPath: clip, Result: result})
		}
	}

	return uploads, nil
}

// UploadClip uploads one clip, replacing a same-named file in the folder, and shares it
func (s *UploadService) UploadClip(ctx context.Context, clipPath string) (*distribution.UploadResult, error) {
	fileName := audio.Basename(clipPath) + audio.ClipExtension

	existing, err := s.driveClient.FindFileByName(ctx, s.folderID, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing file: %w", err)
	}
	if existing != nil {
		fmt.Fprintf(s.output, "      Replacing existing %s (%.1f MB)\n", existing.Name, float64(existing.Size)/1024/1024)
		if err := s.driveClient.DeletePermanently(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete existing file %s: %w", existing.Name, err)
		}
	}

	req := distribution.UploadRequest{
		LocalPath: clipPath,
		FileName:  fileName,
		FolderID:  s.folderID,
		MimeType:  distribution.MimeTypeWAV,
	}

	result, err := s.driveClient.UploadAndShare(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload and share %s: %w", fileName, err)
	}

	return result, nil
}
