package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"separate-songs/infrastructure/config"
)

// mockPrompter answers prompts from queues, falling back to defaults
type mockPrompter struct {
	inputs   []string
	confirms []bool
	selects  []string
	messages []string
}

func (m *mockPrompter) Input(message string, defaultValue string) (string, error) {
	m.messages = append(m.messages, message)
	if len(m.inputs) == 0 {
		return defaultValue, nil
	}
	v := m.inputs[0]
	m.inputs = m.inputs[1:]
	return v, nil
}

func (m *mockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	m.messages = append(m.messages, message)
	if len(m.confirms) == 0 {
		return defaultValue, nil
	}
	v := m.confirms[0]
	m.confirms = m.confirms[1:]
	return v, nil
}

func (m *mockPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	m.messages = append(m.messages, message)
	if len(m.selects) == 0 {
		return defaultValue, nil
	}
	v := m.selects[0]
	m.selects = m.selects[1:]
	return v, nil
}

func noVerify(ctx context.Context, soxPath string) error { return nil }

func TestRunSetupWithPrompter_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "config.yaml")
	out := &bytes.Buffer{}

	err := RunSetupWithPrompter(context.Background(), &mockPrompter{}, noVerify, path, out)
	if err != nil {
		t.Fatalf("RunSetupWithPrompter() unexpected error: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("config.Load() unexpected error: %v", err)
	}
	if cfg.Sox.Path != "sox" || cfg.Log.Level != "info" || cfg.PublishingEnabled() {
		t.Errorf("saved config = %+v, want defaults", cfg)
	}
	if !strings.Contains(out.String(), "Configuration saved to "+path) {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunSetupWithPrompter_WithDrive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	prompter := &mockPrompter{
		inputs:   []string{"/opt/bin/sox", "client.json", "tok.json", "folder-42"},
		selects:  []string{"debug", "json"},
		confirms: []bool{true},
	}

	if err := RunSetupWithPrompter(context.Background(), prompter, noVerify, path, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := config.Config{
		Sox:    config.SoxConfig{Path: "/opt/bin/sox"},
		Log:    config.LogConfig{Level: "debug", Format: "json"},
		Google: config.GoogleConfig{Auth: "oauth", CredentialsFile: "client.json", TokenFile: "tok.json", ClipsFolderID: "folder-42"},
	}
	if *cfg != want {
		t.Errorf("saved config = %+v, want %+v", *cfg, want)
	}
}

func TestRunSetupWithPrompter_ServiceAccount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	prompter := &mockPrompter{
		inputs:   []string{"sox", "sa-key.json", "folder-7"},
		selects:  []string{"info", "text", config.AuthServiceAccount},
		confirms: []bool{true},
	}

	if err := RunSetupWithPrompter(context.Background(), prompter, noVerify, path, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Google.Auth != config.AuthServiceAccount || cfg.Google.CredentialsFile != "sa-key.json" || cfg.Google.ClipsFolderID != "folder-7" {
		t.Errorf("saved google config = %+v", cfg.Google)
	}
	for _, m := range prompter.messages {
		if strings.Contains(m, "OAuth token") {
			t.Errorf("service account setup asked %q", m)
		}
	}
}

func TestRunSetupWithPrompter_RequiresFolderWhenPublishing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	prompter := &mockPrompter{
		inputs:   []string{"sox", "", "", ""},
		confirms: []bool{true},
	}

	err := RunSetupWithPrompter(context.Background(), prompter, noVerify, path, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "folder ID is required") {
		t.Errorf("expected folder ID error, got %v", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("config must not be written when setup fails")
	}
}

func TestRunSetupWithPrompter_WarnsWhenSoxMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	out := &bytes.Buffer{}
	verify := func(ctx context.Context, soxPath string) error {
		return errors.New("sox not found or not executable")
	}

	if err := RunSetupWithPrompter(context.Background(), &mockPrompter{}, verify, path, out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Warning: sox not found") {
		t.Errorf("expected warning, got %q", out.String())
	}
}

func TestRunSetupWithPrompter_KeepsExistingWhenDeclined(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("sox:\n  path: keep-me\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}

	err := RunSetupWithPrompter(context.Background(), &mockPrompter{confirms: []bool{false}}, noVerify, path, out)
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "keep-me") {
		t.Errorf("existing config was overwritten: %s", data)
	}
	if !strings.Contains(out.String(), "Setup cancelled.") {
		t.Errorf("output = %q", out.String())
	}
}
