package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sunwatt-io/powertrack/internal/constants"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// NewLoginCommand creates the login command. The session cookie is pasted
// from an authenticated browser session; it is read without echo and
// persisted to the config file.
func NewLoginCommand() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store PowerTrack session credentials",
		Long: `Store a PowerTrack session for later commands.

Paste the session cookie (and optionally the XSRF token) from an
authenticated browser session. Credentials are written to the config file
under ~/.powertrack/.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				baseURL = viper.GetString("base-url")
			}

			if baseURL == "" {
				return ErrBaseURLRequired
			}

			fmt.Fprint(os.Stderr, "Session cookie: ")

			cookieBytes, err := term.ReadPassword(int(os.Stdin.Fd()))

			fmt.Fprintln(os.Stderr)

			if err != nil {
				return fmt.Errorf("reading cookie: %w", err)
			}

			fmt.Fprint(os.Stderr, "XSRF token (optional): ")

			reader := bufio.NewReader(os.Stdin)
			xsrfToken, _ := reader.ReadString('\n')

			err = persistSession(baseURL, strings.TrimSpace(string(cookieBytes)), strings.TrimSpace(xsrfToken))
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stderr, "Session saved.")

			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "PowerTrack base URL")

	return cmd
}

// persistSession writes the session to ~/.powertrack/config.yml.
func persistSession(baseURL, cookie, xsrfToken string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("finding home directory: %w", err)
	}

	configDir := filepath.Join(home, ".powertrack")

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yml")
	settings := map[string]string{
		"base-url": baseURL,
		"cookie":   cookie,
	}

	if xsrfToken != "" {
		settings["xsrf-token"] = xsrfToken
	}

	encoded, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	err = os.WriteFile(configPath, encoded, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
