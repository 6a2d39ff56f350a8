package cmd

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/db"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/wave"
	"github.com/shunichi-ikebuchi/shopify-wave-sync/pkg/writer"
)

type businessView struct {
	Name     string         `yaml:"name"`
	ID       string         `yaml:"id"`
	Accounts []wave.Account `yaml:"accounts"`
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

func writePlanYAML(w io.Writer, plan []wave.MoneyTransactionCreateInput) error {
	if len(plan) == 0 {
		return nil
	}
	return writeYAML(w, plan)
}

func writeBusinessesYAML(w io.Writer, page wave.BusinessPage) error {
	views := make([]businessView, 0, len(page.Businesses))
	for _, b := range page.Businesses {
		views = append(views, businessView{Name: b.Name, ID: b.ID, Accounts: b.Accounts})
	}
	return writeYAML(w, views)
}

func printBusinesses(w io.Writer, page wave.BusinessPage) {
	if len(page.Businesses) == 0 {
		fmt.Fprintln(w, "No businesses found")
		return
	}

	for _, b := range page.Businesses {
		fmt.Fprintf(w, "%s (%s)\n", b.Name, b.ID)
		for _, a := range b.Accounts {
			fmt.Fprintf(w, "  %-40s %s\n", a.Name, a.ID)
		}
	}

	if page.TotalPages > 1 {
		fmt.Fprintf(w, "\nShowing page %d of %d (%d businesses); only this page is used by sync\n",
			page.CurrentPage, page.TotalPages, page.TotalCount)
	}
}

func printReport(w io.Writer, report writer.Report) {
	fmt.Fprintln(w, "\n=== Sync Summary ===")
	fmt.Fprintf(w, "Transactions attempted: %d\n", report.Attempted)
	fmt.Fprintf(w, "Succeeded:              %d\n", report.Succeeded)
	fmt.Fprintf(w, "Failed:                 %d\n", report.Failed)
	if len(report.FailedHandles) > 0 {
		fmt.Fprintf(w, "Failed products:        %s\n", strings.Join(report.FailedHandles, ", "))
	}
	fmt.Fprintln(w)
}

func printStats(w io.Writer, stats *db.Stats, failures []db.WriteRecord) {
	fmt.Fprintln(w, "\n=== Write Statistics ===")
	fmt.Fprintf(w, "Total writes:   %d\n", stats.TotalWrites)
	fmt.Fprintf(w, "Succeeded:      %d\n", stats.Succeeded)
	fmt.Fprintf(w, "Failed:         %d\n", stats.Failed)

	if stats.LastRun.Valid {
		fmt.Fprintf(w, "Last run:       %s\n", stats.LastRun.String)
	} else {
		fmt.Fprintf(w, "Last run:       (never)\n")
	}

	if len(failures) > 0 {
		fmt.Fprintln(w, "\nRecent failures:")
		for _, f := range failures {
			fmt.Fprintf(w, "  %s  %s  %s\n", f.WrittenAt.Format("2006-01-02 15:04:05"), f.ProductHandle, f.Message)
		}
	}

	fmt.Fprintln(w)
}
