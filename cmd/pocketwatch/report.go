package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hollis-m/pocketwatch/internal/cli"
	"github.com/hollis-m/pocketwatch/internal/common"
	"github.com/hollis-m/pocketwatch/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a financial report for a user",
		Long: `Generate a report over a date range and print it to the terminal.
The window defaults to the previous calendar month. With --email the
report is also sent to the address in the user's report settings.`,
		RunE: runReport,
	}

	cmd.Flags().StringP("user", "u", "", "user ID to report on (required)")
	cmd.Flags().StringP("from", "f", "", "start date (format: 2006-01-02)")
	cmd.Flags().StringP("to", "t", "", "end date (format: 2006-01-02)")
	cmd.Flags().Bool("email", false, "email the report to the configured address")
	cmd.Flags().Bool("preview", false, "render the report without recording it")
	_ = cmd.MarkFlagRequired("user")
	cmd.MarkFlagsMutuallyExclusive("email", "preview")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	userID, _ := cmd.Flags().GetString("user")
	sendEmail, _ := cmd.Flags().GetBool("email")
	preview, _ := cmd.Flags().GetBool("preview")

	from, to, err := reportWindow(cmd)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	insights, err := initInsights()
	if err != nil {
		return err
	}

	opts := report.Options{Frequency: "MANUAL", SkipAudit: preview}
	var mailer report.Mailer
	if sendEmail {
		setting, err := store.GetReportSetting(ctx, userID)
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("no report settings for user %s", userID)
		}
		if err != nil {
			return err
		}
		if setting.Email == "" {
			return fmt.Errorf("no email configured for user %s", userID)
		}

		mailer, err = initMailer()
		if err != nil {
			return err
		}
		if mailer == nil {
			return fmt.Errorf("SMTP is not configured")
		}
		opts.SendEmail = true
		opts.Recipient = setting.Email
		opts.Username = setting.Name
	}

	reports := report.NewService(store, insights, mailer, nil)

	generated, err := reports.Generate(ctx, userID, from, to, opts)
	if errors.Is(err, common.ErrNoActivity) {
		fmt.Println(cli.FormatWarning("no transactions in the selected period"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	fmt.Println(cli.RenderReport(generated))
	return nil
}

func reportWindow(cmd *cobra.Command) (time.Time, time.Time, error) {
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")

	if fromStr == "" && toStr == "" {
		from, to := report.MonthlyWindow(time.Now())
		return from, to, nil
	}
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--from and --to must be used together")
	}

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date: %w", err)
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to must not precede --from")
	}

	// Include the whole end day.
	return from, to.Add(24*time.Hour - time.Nanosecond), nil
}
