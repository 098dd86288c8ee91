package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/lifehealth/dietcli/internal/config"
	"github.com/lifehealth/dietcli/internal/output"
	"github.com/lifehealth/dietcli/internal/session"
	"github.com/lifehealth/dietcli/internal/validate"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:     "auth",
	Short:   "Manage the API session",
	GroupID: "system",
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

var authLoginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in to the planner API",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		var email string
		var err error
		if len(args) == 1 {
			email = args[0]
		} else if email, err = promptLine("Email: "); err != nil {
			return fmt.Errorf("read email: %w", err)
		}
		if err := validate.Email(email); err != nil {
			output.Error("%v", err)
			return err
		}

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		result, err := app.API.Login(email, password)
		if err != nil {
			output.Error("login: %v", err)
			return err
		}

		creds := app.Creds
		if creds == nil {
			creds = &config.Credentials{ClientID: config.ClientID()}
		}
		creds.Email = email
		creds.Token = result.Token
		if err := config.SaveCredentials(creds); err != nil {
			output.Error("save credentials: %v", err)
			return err
		}
		app.Creds = creds

		// The check resyncs the countdown; with a token and no server
		// value, the countdown seed covers it.
		ev := app.Session.Check()
		output.Success("Logged in as %s", email)
		if remaining := session.FormatRemaining(ev.Remaining); remaining != "" {
			output.Subtle("Session ends in %s", remaining)
		}
		return nil
	},
}

var authSignupCmd = &cobra.Command{
	Use:   "signup [email]",
	Short: "Create an account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		var email string
		var err error
		if len(args) == 1 {
			email = args[0]
		} else if email, err = promptLine("Email: "); err != nil {
			return fmt.Errorf("read email: %w", err)
		}
		if err := validate.Email(email); err != nil {
			output.Error("%v", err)
			return err
		}

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		// Policy checks block the submission client-side; the server
		// would reject these anyway.
		if err := validate.Password(password); err != nil {
			output.Error("%v", err)
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if err := validate.PasswordConfirmation(password, confirm); err != nil {
			output.Error("%v", err)
			return err
		}

		result, err := app.API.Signup(email, password)
		if err != nil {
			output.Error("signup: %v", err)
			return err
		}

		creds := &config.Credentials{
			ClientID: config.ClientID(),
			Email:    email,
			Token:    result.Token,
		}
		if err := config.SaveCredentials(creds); err != nil {
			output.Error("save credentials: %v", err)
			return err
		}
		app.Creds = creds
		output.Success("Account created for %s", email)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		// Best effort server-side; local credentials go either way.
		if err := app.API.Logout(); err != nil {
			output.Warning("server logout: %v", err)
		}
		if err := config.ClearCredentials(); err != nil {
			output.Error("clear credentials: %v", err)
			return err
		}
		app.Creds = nil
		app.Session.Reset()
		fmt.Println("Logged out.")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		ev := app.Session.Check()
		if ev.State == session.StateUnauthenticated {
			fmt.Println("Not logged in.")
			output.Subtle("Run 'diet auth login' to sign in.")
			return nil
		}

		fmt.Printf("Email:  %s\n", app.Session.Email())
		fmt.Printf("Server: %s\n", app.Resolver.Base())
		fmt.Printf("State:  %s\n", ev.State)
		if remaining := session.FormatRemaining(ev.Remaining); remaining != "" {
			fmt.Printf("Ends:   %s\n", remaining)
		}
		return nil
	},
}

var authExtendCmd = &cobra.Command{
	Use:   "extend",
	Short: "Extend the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		ev := app.Session.Extend()
		if ev.State == session.StateUnauthenticated {
			output.Warning("Session is no longer valid; run 'diet auth login'.")
			return nil
		}
		if remaining := session.FormatRemaining(ev.Remaining); remaining != "" {
			output.Success("Session extended; ends in %s", remaining)
		} else {
			output.Success("Session extended")
		}
		return nil
	},
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authSignupCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authExtendCmd)
	rootCmd.AddCommand(authCmd)
}
