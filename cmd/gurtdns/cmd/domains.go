package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/lan-dot-party/gurtdns/internal/bootstrap"
	"github.com/lan-dot-party/gurtdns/internal/config"
	"github.com/lan-dot-party/gurtdns/internal/storage"
)

var (
	domainsStatus string
	domainsTLD    string
	domainsLimit  int
	domainsJSON   bool
	domainsSince  string
	domainsStats  bool
)

// domainsCmd lists the registry without modifying it
var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "Show registered domains",
	Long: `Display domains stored in the registry database.

The database must already exist; run "gurtdns start" once to create it.

Examples:
  # Show recent registrations
  gurtdns domains

  # Show pending registrations under .web
  gurtdns domains --status pending --tld web

  # Show registrations from the last 24 hours as JSON
  gurtdns domains --since 24h --json

  # Show counts per status
  gurtdns domains --stats`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := domainsFilter(time.Now())
		if err != nil {
			return bootstrap.Fail(bootstrap.ExitUsage, err)
		}
		if err := runDomains(cmd.Context(), cmd.OutOrStdout(), filter); err != nil {
			return bootstrap.Fail(bootstrap.ExitFailure, err)
		}
		return nil
	},
}

func runDomains(ctx context.Context, out io.Writer, filter storage.DomainFilter) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	store, err := storage.NewStorage(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	if err := store.Connect(ctx); err != nil {
		return fmt.Errorf("failed to open registry: %w", err)
	}
	defer func() { _ = store.Close() }()

	if domainsStats {
		return showDomainStats(ctx, out, store)
	}

	domains, err := store.ListDomains(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to get domains: %w", err)
	}

	if domainsJSON {
		if domains == nil {
			domains = []storage.Domain{}
		}
		return writeJSON(out, domains)
	}

	if len(domains) == 0 {
		fmt.Fprintln(out, "No domains found.")
		return nil
	}
	printDomainsTable(out, domains)
	return nil
}

// domainsFilter builds the listing filter from the command flags.
func domainsFilter(now time.Time) (storage.DomainFilter, error) {
	filter := storage.DomainFilter{
		Status: domainsStatus,
		TLD:    domainsTLD,
		Limit:  domainsLimit,
	}
	if filter.Status != "" && !storage.IsValidStatus(filter.Status) {
		return filter, fmt.Errorf("invalid status %q (must be pending, approved or denied)", filter.Status)
	}
	if filter.Limit < 0 {
		return filter, fmt.Errorf("invalid --limit %d (must not be negative)", filter.Limit)
	}
	if domainsSince != "" {
		duration, err := time.ParseDuration(domainsSince)
		if err != nil {
			return filter, fmt.Errorf("invalid duration format for --since: %w", err)
		}
		filter.Since = now.Add(-duration)
	}
	return filter, nil
}

func showDomainStats(ctx context.Context, out io.Writer, store storage.Storage) error {
	counts, err := store.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	if domainsJSON {
		return writeJSON(out, counts)
	}

	total := 0
	fmt.Fprintln(out, "Domains by status")
	fmt.Fprintln(out, "=================")
	for _, status := range storage.Statuses {
		fmt.Fprintf(out, "  %-9s %d\n", status+":", counts[status])
		total += counts[status]
	}
	fmt.Fprintf(out, "  %-9s %d\n", "total:", total)
	return nil
}

func writeJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func printDomainsTable(out io.Writer, domains []storage.Domain) {
	fmt.Fprintf(out, "%-5s | %-30s | %-15s | %-8s | %s\n",
		"ID", "Domain", "IP", "Status", "Created")
	fmt.Fprintln(out, "------+--------------------------------+-----------------+----------+---------------------")

	for _, d := range domains {
		fmt.Fprintf(out, "%-5d | %-30s | %-15s | %-8s | %s\n",
			d.ID, truncate(d.FQDN(), 30), d.IP, d.Status,
			d.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total: %d domains\n", len(domains))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func init() {
	rootCmd.AddCommand(domainsCmd)

	domainsCmd.Flags().StringVar(&domainsStatus, "status", "",
		"filter by status: pending, approved, denied")
	domainsCmd.Flags().StringVar(&domainsTLD, "tld", "",
		"filter by top-level domain")
	domainsCmd.Flags().IntVarP(&domainsLimit, "limit", "n", 20,
		"maximum number of domains to show")
	domainsCmd.Flags().BoolVar(&domainsJSON, "json", false,
		"output as JSON")
	domainsCmd.Flags().StringVar(&domainsSince, "since", "",
		"show domains registered within this duration (e.g., 24h)")
	domainsCmd.Flags().BoolVar(&domainsStats, "stats", false,
		"show counts per status instead of individual domains")
}
