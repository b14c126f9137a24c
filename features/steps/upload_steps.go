//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"

	"separate-songs/cmd"
	"separate-songs/domain/audio"
	"separate-songs/domain/distribution"

	"github.com/cucumber/godog"
)

// mockDriveClient keeps remote files in memory
type mockDriveClient struct {
	files    map[string]*distribution.FileInfo
	uploaded []distribution.UploadRequest
	deleted  []string
}

func (m *mockDriveClient) FindFileByName(ctx context.Context, folderID, fileName string) (*distribution.FileInfo, error) {
	return m.files[fileName], nil
}

func (m *mockDriveClient) UploadAndShare(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	m.uploaded = append(m.uploaded, req)
	return &distribution.UploadResult{
		FileID:       "new-" + req.FileName,
		FileName:     req.FileName,
		ShareableURL: "https://drive.google.com/file/d/new-" + req.FileName + "/view",
		Size:         1024,
	}, nil
}

func (m *mockDriveClient) DeletePermanently(ctx context.Context, fileID string) error {
	m.deleted = append(m.deleted, fileID)
	return nil
}

// mockFileChecker simulates file existence
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

// uploadContext holds test state for upload scenarios
type uploadContext struct {
	folderID    string
	client      *mockDriveClient
	fileChecker *mockFileChecker
	output      *bytes.Buffer
	err         error
}

// SharedUploadContext is reset before each scenario via Before hook
var SharedUploadContext *uploadContext

func getUploadContext() *uploadContext {
	return SharedUploadContext
}

func InitializeUploadScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedUploadContext = &uploadContext{
			client:      &mockDriveClient{files: make(map[string]*distribution.FileInfo)},
			fileChecker: &mockFileChecker{existingFiles: make(map[string]bool)},
			output:      &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedUploadContext = nil
		return c, nil
	})

	ctx.Step(`^the clips folder is "([^"]*)"$`, theClipsFolderIs)
	ctx.Step(`^the clips of "([^"]*)" exist locally$`, theClipsOfExistLocally)
	ctx.Step(`^"([^"]*)" was already uploaded with id "([^"]*)"$`, wasAlreadyUploadedWithID)
	ctx.Step(`^I upload the clips of "([^"]*)"$`, iUploadTheClipsOf)
	ctx.Step(`^(\d+) clips should have been uploaded$`, clipsShouldHaveBeenUploaded)
	ctx.Step(`^"([^"]*)" should have been shared$`, shouldHaveBeenShared)
	ctx.Step(`^the remote file "([^"]*)" should have been deleted$`, theRemoteFileShouldHaveBeenDeleted)
}

func theClipsFolderIs(id string) error {
	getUploadContext().folderID = id
	return nil
}

func theClipsOfExistLocally(recording string) error {
	u := getUploadContext()
	for i := 0; i < audio.SongCount; i++ {
		u.fileChecker.existingFiles[audio.ClipFilename(recording, i)] = true
	}
	return nil
}

func wasAlreadyUploadedWithID(name, id string) error {
	getUploadContext().client.files[name] = &distribution.FileInfo{ID: id, Name: name}
	return nil
}

func iUploadTheClipsOf(recording string) error {
	u := getUploadContext()
	u.err = cmd.RunUploadWithDependencies(context.Background(), u.client, u.fileChecker, u.folderID, []string{recording}, u.output)
	if u.err != nil {
		return fmt.Errorf("unexpected error: %v", u.err)
	}
	return nil
}

func clipsShouldHaveBeenUploaded(n int) error {
	u := getUploadContext()
	if len(u.client.uploaded) != n {
		return fmt.Errorf("expected %d uploads, got %d", n, len(u.client.uploaded))
	}
	for _, req := range u.client.uploaded {
		if req.FolderID != u.folderID {
			return fmt.Errorf("upload of %s went to folder %q, want %q", req.FileName, req.FolderID, u.folderID)
		}
	}
	return nil
}

func shouldHaveBeenShared(name string) error {
	u := getUploadContext()
	for _, req := range u.client.uploaded {
		if req.FileName == name {
			return nil
		}
	}
	return fmt.Errorf("%s was not uploaded and shared", name)
}

func theRemoteFileShouldHaveBeenDeleted(id string) error {
	u := getUploadContext()
	for _, d := range u.client.deleted {
		if d == id {
			return nil
		}
	}
	return fmt.Errorf("expected %s to be deleted, deleted: %v", id, u.client.deleted)
}
