package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"separate-songs/infrastructure/config"
	"separate-songs/infrastructure/sox"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

// Input asks for free text
func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// Confirm asks a yes/no question
func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// Select asks for one of options
func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

// InstallVerifier checks that a trimming tool can be executed
type InstallVerifier func(ctx context.Context, soxPath string) error

// verifySox runs the configured sox binary
func verifySox(ctx context.Context, soxPath string) error {
	return sox.NewTrimmer(sox.WithSoxPath(soxPath)).VerifyInstalled(ctx)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

The configuration covers the sox executable, diagnostic logging and the
Google Drive folder used by the upload command. The song boundaries are
fixed and cannot be configured.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	toolsCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(cmd.Context(), DefaultPrompter, verifySox, toolsConfigPath(), cmd.OutOrStdout())
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(ctx context.Context, prompter Prompter, verify InstallVerifier, configPath string, output io.Writer) error {
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(filepath.Base(configPath)+" already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(output, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(output, "Welcome to separate-songs setup!")
	fmt.Fprintln(output)

	cfg := config.Default()

	if err := promptSox(ctx, prompter, verify, cfg, output); err != nil {
		return err
	}

	if err := promptLog(prompter, cfg); err != nil {
		return err
	}

	if err := promptGoogle(prompter, cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Configuration saved to %s\n", configPath)
	return nil
}

func promptSox(ctx context.Context, prompter Prompter, verify InstallVerifier, cfg *config.Config, output io.Writer) error {
	path, err := prompter.Input("Path to the sox executable?", cfg.Sox.Path)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if path == "" {
		path = sox.DefaultSoxPath
	}
	cfg.Sox.Path = path

	if verify != nil {
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := verify(verifyCtx, path); err != nil {
			// Saved anyway; sox may be installed later
			fmt.Fprintf(output, "Warning: %v\n", err)
		}
	}

	return nil
}

func promptLog(prompter Prompter, cfg *config.Config) error {
	level, err := prompter.Select("Diagnostic log level?", []string{"debug", "info", "warn", "error"}, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Log.Level = level

	format, err := prompter.Select("Log format?", []string{"text", "json"}, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Log.Format = format

	return nil
}

func promptGoogle(prompter Prompter, cfg *config.Config) error {
	publish, err := prompter.Confirm("Publish clips to Google Drive?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if !publish {
		return nil
	}

	auth, err := prompter.Select("How should uploads authenticate?", []string{config.AuthOAuth, config.AuthServiceAccount}, cfg.Google.Auth)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Google.Auth = auth

	credentialsPrompt := "Path to Google OAuth credentials file?"
	if auth == config.AuthServiceAccount {
		credentialsPrompt = "Path to the service account key file?"
	}
	credentials, err := prompter.Input(credentialsPrompt, cfg.Google.CredentialsFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if credentials != "" {
		cfg.Google.CredentialsFile = credentials
	}

	if auth == config.AuthOAuth {
		token, err := prompter.Input("Where should the OAuth token be stored?", cfg.Google.TokenFile)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if token != "" {
			cfg.Google.TokenFile = token
		}
	}

	folder, err := prompter.Input("Google Drive folder ID for clips?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if folder == "" {
		return fmt.Errorf("folder ID is required")
	}
	cfg.Google.ClipsFolderID = folder

	return nil
}
