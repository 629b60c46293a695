package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"bili-ticket-cli/config"
	"bili-ticket-cli/service"
	"bili-ticket-cli/store"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

var rootCmd = &cobra.Command{
	Use:           "btb",
	Short:         "bilibili show-platform ticket CLI",
	Long:          "Log in, inspect ticket catalogs and generate purchase configurations\nfor the bilibili show platform, all from the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("bili-ticket-cli v0.1")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func Execute() {
	if os.Getenv("BTB_DEBUG") != "" {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

// newClient builds a vendor client from the app settings.
func newClient() (*service.Client, *config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}
	client, err := service.NewClient(&http.Client{Timeout: settings.Timeout})
	if err != nil {
		return nil, nil, err
	}
	client.SetUserAgent(settings.UserAgent)
	return client, settings, nil
}

// restoreSession installs the stored cookies on the client and verifies
// they still resolve to an account.
func restoreSession(ctx context.Context, client *service.Client) (*service.Session, error) {
	cookies, err := store.LoadCookies()
	if err != nil {
		return nil, err
	}
	if len(cookies) == 0 {
		return nil, errors.New(`not logged in, run "btb login" first`)
	}
	client.SetCookies(cookies)
	name, err := client.Username(ctx)
	if err != nil {
		return nil, fmt.Errorf("check login state: %w", err)
	}
	if name == "" {
		return nil, errors.New(`the stored session is invalid or expired, run "btb login" again`)
	}
	return &service.Session{Username: name, Cookies: cookies}, nil
}
