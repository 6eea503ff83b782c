package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/crucial707/monster-mashup/cmd/cli/client"
)

// readPassword prompts on stderr and reads without echo when stdin is a
// terminal; piped input is read line by line. Tests replace it.
var readPassword = func(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	return readLine(os.Stdin)
}

// One buffered reader per source so consecutive prompts share buffered input.
var (
	lineSrc    io.Reader
	lineReader *bufio.Reader
)

func readLine(in io.Reader) (string, error) {
	if lineReader == nil || lineSrc != in {
		lineSrc, lineReader = in, bufio.NewReader(in)
	}
	line, err := lineReader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// InitAuth registers auth-related CLI commands on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(loginCmd(), registerCmd(), logoutCmd(), whoamiCmd(), passwordCmd())
}

// credentials fills username/password from flags, prompting for what is missing.
func credentials(cmd *cobra.Command, username, password string) (string, string, error) {
	var err error
	if username == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Username: ")
		if username, err = readLine(cmd.InOrStdin()); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = readPassword("Password: "); err != nil {
			return "", "", err
		}
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return "", "", fmt.Errorf("username is required")
	}
	return username, password, nil
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := credentials(cmd, username, password)
			if err != nil {
				return err
			}
			return login(cmd.Context(), cmd.OutOrStdout(), client.New(), username, password)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func login(ctx context.Context, out io.Writer, c *client.Client, username, password string) error {
	var resp struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	err := c.JSON(ctx, http.MethodPost, "/login", map[string]string{"username": username, "password": password}, &resp)
	if errors.Is(err, client.ErrNotLoggedIn) {
		return fmt.Errorf("login failed: invalid username or password")
	}
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	fmt.Fprintf(out, "Logged in as %s.\n", resp.User.Username)
	return nil
}

// ==========================
// Register
// ==========================
func registerCmd() *cobra.Command {
	var username, password string
	var andLogin bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  "Create an account. Usernames need at least 3 characters, passwords at least 6.",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := credentials(cmd, username, password)
			if err != nil {
				return err
			}
			c := client.New()
			if err := c.JSON(cmd.Context(), http.MethodPost, "/register", map[string]string{"username": username, "password": password}, nil); err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registered.")
			if andLogin {
				return login(cmd.Context(), cmd.OutOrStdout(), c, username, password)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "You can now log in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to register")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().BoolVar(&andLogin, "login", false, "Log in right after registering")
	return cmd
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New()
			err := c.JSON(cmd.Context(), http.MethodGet, "/logout", nil, nil)
			// The local session goes either way.
			if clearErr := c.Session.Clear(); clearErr != nil {
				return clearErr
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: server logout failed: %v\n", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

// ==========================
// Who Am I
// ==========================
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Authenticated bool `json:"authenticated"`
				User          struct {
					Username string `json:"username"`
				} `json:"user"`
			}
			c := client.New()
			if err := c.JSON(cmd.Context(), http.MethodGet, "/check-session", nil, &resp); err != nil {
				return err
			}
			if !resp.Authenticated {
				_ = c.Session.Clear()
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.User.Username)
			return nil
		},
	}
}

// ==========================
// Change Password
// ==========================
func passwordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := readPassword("New password: ")
			if err != nil {
				return err
			}
			second, err := readPassword("Repeat new password: ")
			if err != nil {
				return err
			}
			if first != second {
				return fmt.Errorf("passwords do not match")
			}
			if err := client.New().JSON(cmd.Context(), http.MethodPost, "/api/update-password", map[string]string{"newPassword": first}, nil); err != nil {
				return fmt.Errorf("password change failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated.")
			return nil
		},
	}
}
