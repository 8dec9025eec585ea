package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	devenv "tsb-banking/dev/env"
	"tsb-banking/lib/credentials"
	"tsb-banking/lib/restyutil"
	"tsb-banking/lib/scrapers/tsb"
	"tsb-banking/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	loginCredentials string
	loginDebugDir    string
	loginJson        bool
	loginDetect      bool
)

func init() {
	loginCmd.Flags().StringVar(&loginCredentials, "creds", "", "Path to the two line credentials file (overrides config).")
	loginCmd.Flags().StringVar(&loginDebugDir, "debug-dir", "", "Dump every http exchange into a new run-NNN directory under this one, may start with <dev_state> (overrides config).")
	loginCmd.Flags().BoolVar(&loginJson, "json", false, "Print the session as json.")
	loginCmd.Flags().BoolVar(&loginDetect, "detect-rejected", false, "Fail when the signon form is shown again after login.")
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login [--creds <path/to/creds.txt>] [--debug-dir <dir>] [--json]",
	Short: "Signs on and prints the resulting session tokens.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if loginCredentials != "" {
			cfg.CredentialsFile = loginCredentials
		}
		if loginDebugDir != "" {
			cfg.DebugDir = loginDebugDir
		}
		if loginDetect {
			cfg.DetectRejectedLogin = true
		}

		creds, err := credentials.Load(cfg.CredentialsFile)
		if err != nil {
			return err
		}

		opts := tsb.ClientOptions{
			BaseUrl:             cfg.BaseUrl,
			CookieDomain:        cfg.CookieDomain,
			Timeout:             cfg.Timeout(),
			CloudflareBypass:    cfg.UseCloudflareBypass(),
			DetectRejectedLogin: cfg.DetectRejectedLogin,
			Telemetry:           telemetry.SlogAPI{},
		}
		if cfg.DebugDir != "" {
			dir, err := devenv.ResolvePath(cfg.DebugDir)
			if err != nil {
				return fmt.Errorf("debug output: %w", err)
			}
			out, err := restyutil.NewFilesystemOutput(dir)
			if err != nil {
				return fmt.Errorf("debug output: %w", err)
			}
			slog.Info("writing request dumps", "dir", out.Dir())
			opts.DebugOutput = out
		}

		client, err := tsb.NewClient(opts)
		if err != nil {
			return err
		}

		slog.Info("signing on", "username", creds.Username, "base_url", cfg.BaseUrl)
		session, err := client.Login(cmd.Context(), creds)
		if err != nil {
			return err
		}

		if loginJson {
			return printSessionJson(cmd.OutOrStdout(), session)
		}
		printSessionTable(cmd.OutOrStdout(), session)
		return nil
	},
}

type sessionJson struct {
	CustomerNumber string   `json:"customer_number"`
	NextSequenceID string   `json:"next_sequence_id"`
	Cookies        []string `json:"cookies"`
}

func cookieNames(session tsb.Session) []string {
	names := make([]string, len(session.Cookies))
	for i, c := range session.Cookies {
		names[i] = c.Name
	}
	return names
}

func printSessionJson(w io.Writer, session tsb.Session) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sessionJson{
		CustomerNumber: session.CustomerNumber,
		NextSequenceID: session.NextSequenceID,
		Cookies:        cookieNames(session),
	})
}

// printSessionTable never prints cookie values, they are as good as the password.
func printSessionTable(w io.Writer, session tsb.Session) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Customer number", session.CustomerNumber},
		{"Next sequence id", session.NextSequenceID},
		{"Cookies", strings.Join(cookieNames(session), ", ")},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
