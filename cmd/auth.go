package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"contentpilot/internal/app"
	"contentpilot/internal/credentials"
	"contentpilot/internal/distribution/youtube"
)

const authTimeout = 5 * time.Minute

var (
	authInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	authSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	authErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var (
	authChannel      string
	authClientID     string
	authClientSecret string
	authPort         int
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with publishing platforms",
	Long:  `Authorize YouTube channels and check which provider credentials are available.`,
}

var authYouTubeCmd = &cobra.Command{
	Use:   "youtube",
	Short: "Authorize a YouTube channel (OAuth)",
	Long: `Run the OAuth consent flow in the browser and store the resulting token in the
api_keys table as Youtube_OAuth or Youtube_OAuth:<channel>.`,
	RunE: runAuthYouTube,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check credential status for all providers",
	RunE:  runAuthStatus,
}

func init() {
	authYouTubeCmd.Flags().StringVar(&authChannel, "channel", "", "Channel handle the token belongs to (empty for the default)")
	authYouTubeCmd.Flags().StringVar(&authClientID, "client-id", "", "OAuth client id (defaults to the stored credential)")
	authYouTubeCmd.Flags().StringVar(&authClientSecret, "client-secret", "", "OAuth client secret (defaults to the stored credential)")
	authYouTubeCmd.Flags().IntVar(&authPort, "port", 8085, "Local port for the OAuth callback")

	authCmd.AddCommand(authYouTubeCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func youtubeProvider(channel string) string {
	if channel == "" {
		return credentials.ProviderYouTube
	}
	return credentials.ProviderYouTube + ":" + channel
}

func runAuthYouTube(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(context.Background()) }()

	if err := a.Migrate(ctx); err != nil {
		return err
	}

	auth, err := oauthClient(ctx, a)
	if err != nil {
		return err
	}
	auth.RedirectURI = fmt.Sprintf("http://localhost:%d/callback", authPort)

	if err := runYouTubeAuth(ctx, auth, authPort); err != nil {
		return err
	}

	value, err := auth.Encode()
	if err != nil {
		return err
	}
	provider := youtubeProvider(authChannel)
	if _, err := a.Store().PutAPIKey(ctx, provider, "oauth", value); err != nil {
		return fmt.Errorf("store youtube token: %w", err)
	}

	fmt.Println(authSuccessStyle.Render("✓ YouTube authentication complete"))
	fmt.Println(authSuccessStyle.Render("  Stored as: " + provider))
	return nil
}

// oauthClient takes the client id and secret from flags, falling back to a
// stored credential for the channel.
func oauthClient(ctx context.Context, a *app.App) (*youtube.Auth, error) {
	auth := &youtube.Auth{ClientID: authClientID, ClientSecret: authClientSecret}
	if auth.ClientID != "" && auth.ClientSecret != "" {
		return auth, nil
	}

	raw, err := credentials.ResolveScoped(ctx, a.Credentials(), credentials.ProviderYouTube, authChannel)
	if errors.Is(err, credentials.ErrNotFound) {
		return nil, fmt.Errorf("no stored YouTube client; pass --client-id and --client-secret")
	}
	if err != nil {
		return nil, err
	}

	stored, err := youtube.ParseAuth(raw)
	if err != nil {
		return nil, err
	}
	if auth.ClientID == "" {
		auth.ClientID = stored.ClientID
	}
	if auth.ClientSecret == "" {
		auth.ClientSecret = stored.ClientSecret
	}
	auth.TokenURI = stored.TokenURI
	return auth, nil
}

func runYouTubeAuth(ctx context.Context, auth *youtube.Auth, port int) error {
	state := uuid.NewString()
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}

	server := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
	}

	server.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/callback" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("state") != state {
			errChan <- fmt.Errorf("state mismatch in callback")
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no code in callback")
			_, _ = fmt.Fprintf(w, "<html><body><h1>Error</h1><p>No authorization code received.</p></body></html>")
			return
		}

		codeChan <- code
		_, _ = fmt.Fprintf(w, "<html><body><h1>Success!</h1><p>You can close this window and return to the terminal.</p></body></html>")
	})

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}()

	authURL := auth.AuthURL(state)
	fmt.Println(authInfoStyle.Render("\nOpening browser for YouTube authentication..."))
	fmt.Println(authInfoStyle.Render("If browser doesn't open, visit:\n" + authURL))

	_ = browser.OpenURL(authURL)

	fmt.Println(authInfoStyle.Render("\nWaiting for authentication..."))

	select {
	case code := <-codeChan:
		return auth.Exchange(ctx, code)
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(authTimeout):
		return fmt.Errorf("authentication timed out")
	}
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(context.Background()) }()

	if err := a.Migrate(ctx); err != nil {
		return err
	}

	rows := [][]string{}
	for _, provider := range []string{
		credentials.ProviderGroq,
		credentials.ProviderGemini,
		credentials.ProviderOpenAI,
		credentials.ProviderInstagram,
	} {
		_, err := a.Credentials().Resolve(ctx, provider)
		switch {
		case err == nil:
			rows = append(rows, []string{provider, "✓", "credential available"})
		case errors.Is(err, credentials.ErrNotFound):
			rows = append(rows, []string{provider, "○", "not configured"})
		default:
			rows = append(rows, []string{provider, "✗", err.Error()})
		}
	}

	youtubeRows, err := youtubeStatus(ctx, a)
	if err != nil {
		return err
	}
	rows = append(rows, youtubeRows...)

	cfg := a.Config()
	rows = append(rows,
		optionalRow("Telegram", cfg.TelegramBotToken != "" && cfg.Notify.TelegramChatID != 0, "bot token and chat id"),
		optionalRow("Email", cfg.Notify.Email.Host != "" && len(cfg.Notify.Email.To) > 0, "smtp host and recipients"),
		optionalRow("Sentry", cfg.SentryDSN != "", "SENTRY_DSN"),
	)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Service", "", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 || row >= len(rows) || col != 1 {
				return lipgloss.NewStyle().Padding(0, 1)
			}
			switch rows[row][1] {
			case "✓":
				return authSuccessStyle.Padding(0, 1)
			case "✗":
				return authErrorStyle.Padding(0, 1)
			default:
				return authInfoStyle.Padding(0, 1)
			}
		})

	fmt.Println(authInfoStyle.Render("\nService Authentication Status:"))
	fmt.Println(t.String())
	return nil
}

// youtubeStatus reports every stored Youtube_OAuth credential.
func youtubeStatus(ctx context.Context, a *app.App) ([][]string, error) {
	keys, err := a.Store().ListAPIKeys(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var rows [][]string
	for _, k := range keys {
		if !k.IsActive || seen[k.Provider] || !strings.HasPrefix(k.Provider, credentials.ProviderYouTube) {
			continue
		}
		seen[k.Provider] = true

		auth, err := youtube.ParseAuth(k.KeyValue)
		switch {
		case err != nil:
			rows = append(rows, []string{k.Provider, "✗", "invalid credential"})
		case auth.IsAuthenticated():
			rows = append(rows, []string{k.Provider, "✓", "authorized"})
		default:
			rows = append(rows, []string{k.Provider, "✗", "client stored, run: contentpilot auth youtube"})
		}
	}
	if len(rows) == 0 {
		rows = append(rows, []string{credentials.ProviderYouTube, "○", "not configured"})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return rows, nil
}

func optionalRow(name string, ok bool, what string) []string {
	if ok {
		return []string{name, "✓", "configured"}
	}
	return []string{name, "○", "optional, needs " + what}
}
