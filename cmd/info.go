package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bili-ticket-cli/store"
)

var infoCmd = &cobra.Command{
	Use:   "info <url-or-id>",
	Short: "Show a project's ticket catalog",
	Long: `Fetch a project by its detail-page URL or bare id and print its
metadata, venue and ticket list. Works without logging in, but a stored
session is used when one exists.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := newClient()
	if err != nil {
		return err
	}
	if cookies, err := store.LoadCookies(); err == nil && len(cookies) > 0 {
		client.SetCookies(cookies)
	}

	catalog, err := client.ResolveCatalog(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(catalog.ProjectName))
	fmt.Printf("Project id: %d\n", catalog.ProjectID)
	if catalog.HotProject {
		fmt.Println("Hot project: yes")
	}
	fmt.Printf("Runs: %s to %s\n", formatTimestamp(catalog.StartTime), formatTimestamp(catalog.EndTime))
	if catalog.Venue.Name != "" {
		fmt.Printf("Venue: %s", catalog.Venue.Name)
		if catalog.Venue.AddressDetail != "" {
			fmt.Printf(" (%s)", catalog.Venue.AddressDetail)
		}
		fmt.Println()
	}

	tickets := catalog.Tickets()
	if len(tickets) == 0 {
		fmt.Println(faintStyle.Render("No tickets listed for this project."))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Screen", "Ticket", "Price", "Status", "Sale start", "Buyable"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true, WidthMax: 28},
		{Number: 2, WidthMax: 32},
	})
	t.Style().Options.SeparateRows = true
	for _, sku := range tickets {
		buyable := "no"
		if sku.Clickable {
			buyable = "yes"
		}
		t.AppendRow(table.Row{
			sku.ScreenName,
			sku.Desc,
			fmt.Sprintf("¥%.2f", float64(sku.EffectivePrice())/100),
			sku.SaleStatus,
			sku.SaleStart,
			buyable,
		})
	}
	t.Render()

	if len(catalog.SalesDates) > 0 {
		fmt.Printf("Sale dates: %s\n", strings.Join(catalog.SalesDates, ", "))
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("%d ticket type(s) found", len(tickets))))
	return nil
}

func formatTimestamp(ts int64) string {
	if ts <= 0 {
		return "unknown"
	}
	return time.Unix(ts, 0).Format("2006-01-02 15:04:05")
}
