package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"contentpilot/internal/app"
	"contentpilot/internal/credentials"
	"contentpilot/internal/distribution/instagram"
	"contentpilot/internal/distribution/youtube"
	"contentpilot/internal/notify"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

const starterConfig = `server:
  addr: ":5000"
  swagger: true
database:
  driver: sqlite
  path: ./contentpilot.db
pipeline:
  interval: 1h
storage:
  provider: local
  local_dir: ./media
`

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for ContentPilot",
	Long: `Write .env secrets, prepare the database, seed prompt templates and store
publishing credentials in the api_keys table.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupState carries answers between wizard steps.
type setupState struct {
	env            map[string]string
	telegramChatID int64
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("📅 ContentPilot Setup"))

	ctx := cmd.Context()
	state := &setupState{env: map[string]string{}}

	steps := []struct {
		name string
		fn   func(context.Context, *setupState) error
	}{
		{"Creating config", createConfig},
		{"Configuring environment", configureEnv},
		{"Preparing database", prepareDatabase},
	}

	for _, step := range steps {
		if err := step.fn(ctx, state); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	printNextSteps(state)
	return nil
}

func createConfig(_ context.Context, _ *setupState) error {
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println(infoStyle.Render("Using existing " + configPath))
		return nil
	}
	if err := os.WriteFile(configPath, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", configPath, err)
	}
	if err := os.MkdirAll("media", 0o755); err != nil {
		return fmt.Errorf("create media: %w", err)
	}
	fmt.Println(successStyle.Render("✓ Created " + configPath))
	return nil
}

func configureEnv(ctx context.Context, state *setupState) error {
	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	if err := configureGCP(state.env); err != nil {
		return err
	}
	if err := configureLLMKeys(state.env); err != nil {
		return err
	}
	if err := configureTelegram(ctx, state); err != nil {
		return err
	}
	if err := configureSentry(state.env); err != nil {
		return err
	}

	return writeEnvFile(state.env)
}

func configureGCP(env map[string]string) error {
	var setupGCP bool
	if err := huh.NewConfirm().
		Title("Setup Google Cloud?").
		Description("Needed for Secret Manager, Cloud Storage, Imagen and Veo").
		Value(&setupGCP).
		Run(); err != nil {
		return err
	}

	if !setupGCP {
		return nil
	}

	if !commandExists("gcloud") {
		fmt.Println(warnStyle.Render("gcloud CLI not found - install from https://cloud.google.com/sdk/docs/install"))
		return nil
	}

	project, err := chooseGCPProject()
	if err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("GCP setup skipped: %v", err)))
		return nil
	}
	env["GOOGLE_CLOUD_PROJECT"] = project

	if err := enableGCPAPIs(project); err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("API enablement failed: %v", err)))
	}

	var bucket string
	if err := huh.NewInput().
		Title("GCS bucket for generated media (optional)").
		Description("Leave empty to serve media from ./media").
		Value(&bucket).
		Run(); err != nil {
		return err
	}
	if bucket = strings.TrimSpace(bucket); bucket != "" {
		env["GCS_BUCKET"] = bucket
	}
	return nil
}

func chooseGCPProject() (string, error) {
	existing := activeGCPProject()

	var choice string
	options := []huh.Option[string]{}
	if existing != "" {
		options = append(options, huh.NewOption(fmt.Sprintf("Use current: %s", existing), existing))
	}
	options = append(options, huh.NewOption("Enter project ID manually", "manual"))

	if err := huh.NewSelect[string]().
		Title("Google Cloud Project").
		Options(options...).
		Value(&choice).
		Run(); err != nil {
		return "", err
	}

	if choice != "manual" {
		return choice, nil
	}

	var projectID string
	if err := huh.NewInput().
		Title("Project ID").
		Value(&projectID).
		Validate(required("Project ID")).
		Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(projectID), nil
}

func activeGCPProject() string {
	out, err := exec.Command("gcloud", "config", "get-value", "project").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func enableGCPAPIs(project string) error {
	apis := []string{
		"youtube.googleapis.com",
		"secretmanager.googleapis.com",
		"storage.googleapis.com",
		"aiplatform.googleapis.com",
	}

	return runWithSpinner("Enabling APIs", func() error {
		args := append([]string{"services", "enable"}, apis...)
		args = append(args, "--project", project)
		return runSetupCmd("gcloud", args...)
	})
}

func configureLLMKeys(env map[string]string) error {
	var groqKey, geminiKey, openaiKey string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("GROQ API Key").
				Description("https://console.groq.com/keys (default LLM provider)").
				Value(&groqKey).
				Validate(required("GROQ API Key")),
			huh.NewInput().
				Title("Gemini API Key (optional)").
				Description("https://aistudio.google.com/apikey").
				Value(&geminiKey),
			huh.NewInput().
				Title("OpenAI API Key (optional)").
				Description("Used for DALL-E images and the openai LLM provider").
				EchoMode(huh.EchoModePassword).
				Value(&openaiKey),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	env["GROQ_API_KEY"] = strings.TrimSpace(groqKey)
	if v := strings.TrimSpace(geminiKey); v != "" {
		env["GEMINI_API_KEY"] = v
	}
	if v := strings.TrimSpace(openaiKey); v != "" {
		env["OPENAI_API_KEY"] = v
	}
	return nil
}

func configureTelegram(ctx context.Context, state *setupState) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup Telegram alerts?").
		Description("Get a message when a plan is published or dead-lettered (optional)").
		Value(&setup).
		Run(); err != nil {
		return err
	}

	if !setup {
		return nil
	}

	var token string
	if err := huh.NewInput().
		Title("Telegram Bot Token").
		Description("Get from @BotFather → https://t.me/BotFather").
		Value(&token).
		Run(); err != nil {
		return err
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	state.env["TELEGRAM_BOT_TOKEN"] = token

	fmt.Println(infoStyle.Render("Send any message to your bot, then continue."))
	var ready bool
	if err := huh.NewConfirm().
		Title("Message sent?").
		Value(&ready).
		Run(); err != nil || !ready {
		return err
	}

	var chatName string
	err := runWithSpinner("Detecting chat", func() error {
		id, name, err := notify.NewTelegram(token, 0).ChatID(ctx)
		if err != nil {
			return err
		}
		state.telegramChatID, chatName = id, name
		return nil
	})
	if err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Chat detection failed: %v", err)))
		return nil
	}
	fmt.Println(infoStyle.Render(fmt.Sprintf("Alerts will go to %s (%d)", chatName, state.telegramChatID)))
	return nil
}

func configureSentry(env map[string]string) error {
	var dsn string
	if err := huh.NewInput().
		Title("Sentry DSN (optional)").
		Description("Reports panics and failed passes").
		Value(&dsn).
		Run(); err != nil {
		return err
	}
	if dsn = strings.TrimSpace(dsn); dsn != "" {
		env["SENTRY_DSN"] = dsn
	}
	return nil
}

func writeEnvFile(env map[string]string) error {
	f, err := os.Create(".env")
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	order := []string{
		"GOOGLE_CLOUD_PROJECT",
		"GCS_BUCKET",
		"GROQ_API_KEY",
		"GEMINI_API_KEY",
		"OPENAI_API_KEY",
		"TELEGRAM_BOT_TOKEN",
		"SENTRY_DSN",
	}

	for _, key := range order {
		if val, ok := env[key]; ok && val != "" {
			_, _ = fmt.Fprintf(f, "%s=%s\n", key, val)
		}
		// Make the answers visible to the config loader in this process.
		if val := env[key]; val != "" {
			_ = os.Setenv(key, val)
		}
	}

	fmt.Println(successStyle.Render("✓ Created .env file"))
	return nil
}

func prepareDatabase(ctx context.Context, state *setupState) error {
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(context.Background()) }()

	if err := runWithSpinner("Migrating database", func() error {
		return a.Migrate(ctx)
	}); err != nil {
		return err
	}

	n, err := a.Store().SeedTemplates(ctx, defaultTemplates())
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Seeded %d prompt template(s)", n)))

	if err := setupInstagram(ctx, a); err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Instagram skipped: %v", err)))
	}
	if err := setupYouTube(ctx, a); err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("YouTube skipped: %v", err)))
		fmt.Println(infoStyle.Render("You can retry later with: contentpilot auth youtube"))
	}
	return nil
}

func setupInstagram(ctx context.Context, a *app.App) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup Instagram publishing?").
		Description("Needs a Business account user id and a long-lived Graph API token").
		Value(&setup).
		Run(); err != nil || !setup {
		return err
	}

	var creds instagram.Credentials
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Instagram user id").
				Value(&creds.UserID).
				Validate(required("Instagram user id")),
			huh.NewInput().
				Title("Access token").
				EchoMode(huh.EchoModePassword).
				Value(&creds.AccessToken).
				Validate(required("Access token")),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	creds.UserID = strings.TrimSpace(creds.UserID)
	creds.AccessToken = strings.TrimSpace(creds.AccessToken)

	value, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	if _, err := a.Store().PutAPIKey(ctx, credentials.ProviderInstagram, "default", string(value)); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Stored Instagram credential"))
	return nil
}

func setupYouTube(ctx context.Context, a *app.App) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup YouTube OAuth?").
		Description("Required for uploading Shorts").
		Value(&setup).
		Run(); err != nil || !setup {
		return err
	}

	fmt.Println(infoStyle.Render(`
To create OAuth credentials:
1. Go to https://console.cloud.google.com/apis/credentials
2. Click "Create Credentials" → "OAuth client ID"
3. Choose "Desktop app" as application type
4. Copy the Client ID and Client Secret
`))

	auth := &youtube.Auth{}
	var channel string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("YouTube Client ID").
				Value(&auth.ClientID).
				Validate(required("Client ID")),
			huh.NewInput().
				Title("YouTube Client Secret").
				EchoMode(huh.EchoModePassword).
				Value(&auth.ClientSecret).
				Validate(required("Client Secret")),
			huh.NewInput().
				Title("Channel handle (optional)").
				Description("Leave empty for the default channel").
				Value(&channel),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	auth.ClientID = strings.TrimSpace(auth.ClientID)
	auth.ClientSecret = strings.TrimSpace(auth.ClientSecret)
	provider := youtubeProvider(strings.TrimSpace(channel))

	var authenticate bool
	if err := huh.NewConfirm().
		Title("Authenticate with YouTube now?").
		Description("Opens browser to complete OAuth flow").
		Value(&authenticate).
		Run(); err != nil {
		return err
	}

	if authenticate {
		auth.RedirectURI = fmt.Sprintf("http://localhost:%d/callback", authPort)
		if err := runYouTubeAuth(ctx, auth, authPort); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Println(warnStyle.Render(fmt.Sprintf("OAuth flow failed: %v", err)))
		}
	}

	value, err := auth.Encode()
	if err != nil {
		return err
	}
	if _, err := a.Store().PutAPIKey(ctx, provider, "oauth", value); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Stored YouTube credential as " + provider))
	return nil
}

func printNextSteps(state *setupState) {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	step := 1
	if state.telegramChatID != 0 {
		fmt.Printf("  %d. Add to %s:\n       notify:\n         telegram_chat_id: %d\n", step, configPath, state.telegramChatID)
		step++
	}
	fmt.Printf("  %d. Check credentials: contentpilot auth status\n", step)
	fmt.Printf("  %d. Start the service: contentpilot serve\n", step+1)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func runSetupCmd(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %s", err, stderr.String())
	}
	return nil
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}
