package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bili-ticket-cli/prompt"
	"bili-ticket-cli/qrterm"
	"bili-ticket-cli/service"
	"bili-ticket-cli/store"
)

var loginOpts struct {
	cookieFile string
	status     bool
	logout     bool
	wideQR     bool
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the vendor account by scanning a QR code",
	Long: `Log in by scanning a QR code with the bilibili app, or load a cookie
file exported earlier. The session is stored and reused by the other
commands until you log out.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginOpts.cookieFile, "cookies", "", "log in from a cookie file instead of scanning")
	loginCmd.Flags().BoolVar(&loginOpts.status, "status", false, "show the current login state and exit")
	loginCmd.Flags().BoolVar(&loginOpts.logout, "logout", false, "clear the stored session and exit")
	loginCmd.Flags().BoolVar(&loginOpts.wideQR, "wide-qr", false, "draw the QR code with full-width blocks")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := newClient()
	if err != nil {
		return err
	}

	switch {
	case loginOpts.cookieFile != "":
		return loginWithCookieFile(ctx, client, loginOpts.cookieFile)
	case loginOpts.status:
		return showLoginStatus(ctx, client)
	case loginOpts.logout:
		return runLogout()
	}

	// Already signed in? Ask before replacing the session.
	if cookies, err := store.LoadCookies(); err == nil && len(cookies) > 0 {
		client.SetCookies(cookies)
		if name, err := client.Username(ctx); err == nil && name != "" {
			fmt.Printf("Signed in as %s.\n", name)
			answer, err := prompt.Input("Sign in again? (y/N)", "n")
			if err != nil {
				return err
			}
			if !strings.EqualFold(strings.TrimSpace(answer), "y") {
				return nil
			}
			if err := store.ClearCookies(); err != nil {
				return err
			}
		}
	}

	return loginWithQR(ctx, client)
}

func loginWithQR(ctx context.Context, client *service.Client) error {
	fmt.Println(titleStyle.Render("Scan the QR code with the bilibili app to log in"))

	challenge, err := client.RequestQRChallenge(ctx)
	if err != nil {
		return err
	}

	render := qrterm.Render
	if loginOpts.wideQR {
		render = qrterm.RenderBlocks
	}
	if err := render(os.Stdout, challenge.URL); err != nil {
		// can't draw it, the link still works in any QR generator
		fmt.Printf("QR link: %s\n", challenge.URL)
	}
	fmt.Println(faintStyle.Render("The code is valid for about 120 seconds."))

	var last service.LoginState
	cookies, err := client.PollQRLogin(ctx, challenge, func(state service.LoginState) {
		if state == last {
			return
		}
		last = state
		if state == service.StateScannedPendingConfirm {
			fmt.Println("Scanned. Confirm the login on your phone...")
		}
	})
	if err != nil {
		return err
	}

	if err := store.SaveCookies(cookies); err != nil {
		return fmt.Errorf("save session cookies: %w", err)
	}
	path, _ := store.CookiePath()

	name, err := client.Username(ctx)
	if err != nil || name == "" {
		slog.Warn("logged in but the account name lookup failed", "error", err)
		fmt.Println(successStyle.Render("Logged in. Cookies saved to " + path))
		return nil
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Logged in as %s. Cookies saved to %s", name, path)))
	return nil
}

func loginWithCookieFile(ctx context.Context, client *service.Client, path string) error {
	cookies, err := store.ReadCookieFile(path)
	if err != nil {
		return err
	}
	client.SetCookies(cookies)

	name, err := client.Username(ctx)
	if err != nil {
		return fmt.Errorf("validate cookies: %w", err)
	}
	if name == "" {
		return errors.New("the cookies are invalid or expired")
	}
	if err := store.SaveCookies(cookies); err != nil {
		return fmt.Errorf("save session cookies: %w", err)
	}
	fmt.Println(successStyle.Render("Logged in as " + name))
	return nil
}

func showLoginStatus(ctx context.Context, client *service.Client) error {
	cookies, err := store.LoadCookies()
	if err != nil {
		return err
	}
	if len(cookies) == 0 {
		fmt.Println("Not logged in.")
		return nil
	}
	client.SetCookies(cookies)
	name, err := client.Username(ctx)
	if err != nil {
		return fmt.Errorf("check login state: %w", err)
	}
	if name == "" {
		fmt.Println("The stored session is invalid or expired.")
		return nil
	}
	path, _ := store.CookiePath()
	fmt.Printf("Signed in as %s\n", name)
	fmt.Println(faintStyle.Render("Cookie file: " + path))
	return nil
}

func runLogout() error {
	if err := store.ClearCookies(); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Logged out."))
	return nil
}
