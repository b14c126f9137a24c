package cmd

import (
	"context"
	"fmt"
	"io"

	appdist "separate-songs/application/distribution"
	"separate-songs/domain/audio"
	"separate-songs/domain/distribution"
	"separate-songs/infrastructure/config"
	"separate-songs/infrastructure/drive"
	"separate-songs/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload recording...",
	Short: "Upload the clips of recordings to Google Drive with public sharing",
	Long: `Upload the clips previously cut from each recording to the configured
Google Drive folder and make them readable by anyone with the link.

Clips are looked up in the current directory as <name>-1.wav ... <name>-5.wav.
A clip with the same name already in the folder is replaced.

Example:
  separate-songs set1.wav && separate-songs-tools upload set1.wav`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	toolsCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	if !cfg.PublishingEnabled() {
		return fmt.Errorf("no Google Drive folder configured; run setup or set SEPARATE_SONGS_GOOGLE_CLIPS_FOLDER_ID")
	}

	ctx := cmd.Context()
	client, err := newDriveClient(ctx, cfg.Google, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to create Google Drive client: %w", err)
	}

	return RunUploadWithDependencies(
		ctx,
		client,
		filesystem.NewChecker(),
		cfg.Google.ClipsFolderID,
		args,
		cmd.OutOrStdout(),
	)
}

// newDriveClient authenticates to Google Drive the way the configuration asks
func newDriveClient(ctx context.Context, g config.GoogleConfig, output io.Writer) (*drive.Client, error) {
	switch g.Auth {
	case config.AuthServiceAccount:
		return drive.NewClient(ctx, g.CredentialsFile)
	case config.AuthOAuth, "":
		return drive.NewClientWithOAuth(ctx, drive.OAuthConfig{
			CredentialsFile: g.CredentialsFile,
			TokenFile:       g.TokenFile,
			Output:          output,
		})
	default:
		return nil, fmt.Errorf("unknown google.auth %q (want %s or %s)", g.Auth, config.AuthOAuth, config.AuthServiceAccount)
	}
}

// RunUploadWithDependencies runs the upload command with injected dependencies (for testing)
func RunUploadWithDependencies(
	ctx context.Context,
	driveClient distribution.DriveClient,
	fileChecker audio.FileChecker,
	folderID string,
	inputs []string,
	output io.Writer,
) error {
	service := appdist.NewUploadService(driveClient, fileChecker, folderID, output)

	fmt.Fprintf(output, "Uploading clips of %d recording(s)...\n", len(inputs))

	uploads, err := service.UploadClips(ctx, inputs)
	for _, u := range uploads {
		fmt.Fprintf(output, "  %s (%.2f MB): %s\n", u.ClipPath, float64(u.Result.Size)/1024/1024, u.Result.ShareableURL)
	}
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Fprintf(output, "Upload complete! %d clip(s) shared.\n", len(uploads))
	return nil
}
