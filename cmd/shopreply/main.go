package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xelth-com/shopreply/internal/buildinfo"
	"github.com/xelth-com/shopreply/internal/delivery"
	"github.com/xelth-com/shopreply/internal/models"
	"github.com/xelth-com/shopreply/internal/utils"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shopreply",
		Short: "shopreply - Draft customer-service email replies",
		Long: `shopreply classifies inbound customer emails, looks up the customer's
order in Shopify or Odoo, and drafts a reply grounded on the order facts.

Configuration is read from the environment (and a .env file if present).`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(draftCmd())
	rootCmd.AddCommand(estimateCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API serving POST /process-email and GET /health.

Optional layers are enabled by configuration:
- JWT_SECRET protects /process-email with bearer tokens
- RATE_LIMIT_RPS enables per-client rate limiting
- DATABASE_URL records an audit trail
- SMTP_HOST allows sending the drafted reply`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (overrides PORT)")

	return cmd
}

func draftCmd() *cobra.Command {
	var (
		file        string
		orderID     string
		senderEmail string
	)

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Draft a reply for one email",
		Long:  "Draft a reply for an email read from --file or stdin and print the result as JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			return runDraft(cmd.Context(), cmd.OutOrStdout(), models.InboundEmail{
				Body:        body,
				OrderID:     orderID,
				SenderEmail: senderEmail,
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "File containing the email body (default: stdin)")
	cmd.Flags().StringVar(&orderID, "order-id", "", "Order number to look up")
	cmd.Flags().StringVar(&senderEmail, "email", "", "Customer email to look up")

	return cmd
}

func estimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate <order-date>",
		Short: "Print the pre-order delivery window",
		Long:  "Print the pre-order delivery window for an order placed on the given date (YYYY-MM-DD).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			createdAt, err := time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", args[0], err)
			}
			w := delivery.Estimate(createdAt).Format()
			fmt.Fprintf(cmd.OutOrStdout(), "between %s and %s\n", w.MinDate, w.MaxDate)
			return nil
		},
	}

	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token",
		Long:  "Issue an HS256 bearer token for /process-email, signed with JWT_SECRET.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(false)
			if err != nil {
				return err
			}
			token, err := utils.GenerateAPIToken(subject, cfg.Auth.JWTSecret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "helpdesk", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "Token lifetime (0 = no expiry)")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.Summary())
		},
	}
}

func readBody(stdin io.Reader, file string) (string, error) {
	var (
		data []byte
		err  error
	)
	if file != "" {
		data, err = os.ReadFile(file)
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read email body: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func runDraft(ctx context.Context, out io.Writer, email models.InboundEmail) error {
	if err := email.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.pipeline.Process(ctx, email)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
