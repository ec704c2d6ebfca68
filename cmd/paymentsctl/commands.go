package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/scynett/momopay/internal/pkg/config"
	"github.com/scynett/momopay/internal/pkg/models"
	"github.com/scynett/momopay/services/payments/app"
	"github.com/scynett/momopay/services/payments/decision"
	"github.com/scynett/momopay/services/payments/worker"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/payments.env"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "paymentsctl",
		Short:         "Operator tooling for the payments service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", defaultConfigPath, "Path to the dotenv file loaded when APP_ENV=local")

	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(cleanupCmd())
	rootCmd.AddCommand(pendingCmd())

	return rootCmd
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <code> [message]",
		Short: "Show how a gateway response code and message are handled",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := ""
			if len(args) == 2 {
				message = args[1]
			}
			return writeJSON(cmd.OutOrStdout(), decision.Classify(args[0], message))
		},
	}
}

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one reconciliation cycle against the configured pending ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			if grace, _ := cmd.Flags().GetDuration("grace"); grace >= 0 {
				cfg.Worker.CallbackGracePeriod = grace
			}

			return withComponents(cmd.Context(), cfg, func(ctx context.Context, c *app.Components) error {
				reconciler := worker.NewReconciler(cfg.Worker, c.PendingRepo, c.PaymentUC, c.EventGW, nil)
				stats, err := reconciler.RunOnce(ctx)
				if err != nil {
					return fmt.Errorf("reconciliation failed: %w", err)
				}
				return writeJSON(cmd.OutOrStdout(), stats)
			})
		},
	}

	cmd.Flags().Duration("grace", -1, "Override the callback grace period (negative keeps the configured value)")
	return cmd
}

func cleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove pending entries older than the retention period",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			if retention, _ := cmd.Flags().GetDuration("retention"); retention > 0 {
				cfg.Cleanup.Retention = retention
			}
			cfg.Cleanup.Enabled = true

			return withComponents(cmd.Context(), cfg, func(ctx context.Context, c *app.Components) error {
				removed, err := worker.NewCleaner(cfg.Cleanup, c.PendingRepo, nil).RunOnce(ctx)
				if err != nil {
					return fmt.Errorf("cleanup failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d pending entries\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().Duration("retention", 0, "Override the retention period")
	return cmd
}

func pendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List transactions awaiting a final outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			asJSON, _ := cmd.Flags().GetBool("json")

			return withComponents(cmd.Context(), cfg, func(ctx context.Context, c *app.Components) error {
				pending, err := c.PaymentUC.ListPending(ctx)
				if err != nil {
					return fmt.Errorf("failed to list pending transactions: %w", err)
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), pending)
				}
				printPending(cmd.OutOrStdout(), pending, time.Now())
				return nil
			})
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Output as JSON")
	return cmd
}

func loadConfig(cmd *cobra.Command) *models.Config {
	path, _ := cmd.Flags().GetString("config")
	return config.InitConfig(path)
}

func withComponents(ctx context.Context, cfg *models.Config, fn func(context.Context, *app.Components) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	components, err := app.Build(ctx, cfg, "paymentsctl")
	if err != nil {
		return err
	}
	defer components.Close()

	return fn(ctx, components)
}

func printPending(w io.Writer, pending []models.PendingTransaction, now time.Time) {
	if len(pending) == 0 {
		fmt.Fprintln(w, "No pending transactions")
		return
	}

	fmt.Fprintf(w, "%-40s %-36s %s\n", "TRANSACTION ID", "CLIENT REFERENCE", "AGE")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, p := range pending {
		fmt.Fprintf(w, "%-40s %-36s %s\n", p.TransactionID, p.ClientReference, now.Sub(p.CreatedAt).Truncate(time.Second))
	}
	fmt.Fprintf(w, "\n%d pending\n", len(pending))
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
