package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"bili-ticket-cli/model"
	"bili-ticket-cli/prompt"
	"bili-ticket-cli/service"
	"bili-ticket-cli/store"
)

var configOpts struct {
	cookieFile string
}

var configCmd = &cobra.Command{
	Use:   "config [url-or-id]",
	Short: "Generate a purchase configuration interactively",
	Long: `Walk through ticket, purchaser, address and contact selection for a
project and write the result as a JSON purchase configuration. The file
is what the purchase engine consumes; nothing is bought here.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&configOpts.cookieFile, "cookies-file", "", "run under the session from this cookie file")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, settings, err := newClient()
	if err != nil {
		return err
	}

	var session *service.Session
	if configOpts.cookieFile != "" {
		cookies, err := store.ReadCookieFile(configOpts.cookieFile)
		if err != nil {
			return err
		}
		client.SetCookies(cookies)
		name, err := client.Username(ctx)
		if err != nil {
			return fmt.Errorf("check login state: %w", err)
		}
		if name == "" {
			return errors.New("the cookie file is invalid or expired")
		}
		session = &service.Session{Username: name, Cookies: cookies}
	} else {
		session, err = restoreSession(ctx, client)
		if err != nil {
			return err
		}
	}
	fmt.Println(successStyle.Render("Signed in as " + session.Username))

	ref := ""
	if len(args) > 0 {
		ref = args[0]
	} else {
		ref, err = prompt.Input("Project URL or id", "")
		if err != nil {
			return err
		}
	}
	if ref == "" {
		return errors.New("a project URL or id is required")
	}

	catalog, err := client.ResolveCatalog(ctx, ref)
	if err != nil {
		return err
	}
	tickets := catalog.Tickets()
	if len(tickets) == 0 {
		return errors.New("this project has no purchasable tickets")
	}
	fmt.Printf("Project: %s\n", catalog.ProjectName)

	summaries := make([]string, len(tickets))
	for i, sku := range tickets {
		summaries[i] = sku.Summary()
	}
	ticketIdx, err := prompt.SingleChoice("Choose a ticket", summaries)
	if err != nil {
		return err
	}
	sku := tickets[ticketIdx]

	buyers, err := client.FetchBuyers(ctx, catalog.ProjectID)
	if err != nil {
		return err
	}
	if len(buyers) == 0 {
		return fmt.Errorf("%w: add purchasers in the bilibili app first (会员购 → 购票人信息)", service.ErrEmptyRoster)
	}
	buyerLines := make([]string, len(buyers))
	for i, b := range buyers {
		buyerLines[i] = b.Summary()
	}
	buyerIndices, err := prompt.MultiChoice("Choose purchasers", buyerLines)
	if err != nil {
		return err
	}
	selected := make([]model.Buyer, 0, len(buyerIndices))
	for _, i := range buyerIndices {
		selected = append(selected, buyers[i])
	}
	fmt.Printf("%d purchaser(s) selected.\n", len(selected))

	addresses, err := client.FetchAddresses(ctx)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return fmt.Errorf("%w: add a shipping address in the bilibili app first (会员购 → 地址管理)", service.ErrEmptyRoster)
	}
	addrLines := make([]string, len(addresses))
	for i, a := range addresses {
		addrLines[i] = a.Summary()
	}
	addrIdx, err := prompt.SingleChoice("Choose a shipping address", addrLines)
	if err != nil {
		return err
	}
	addr := addresses[addrIdx]

	defaultName, _ := store.GetPreference(store.PrefContactName)
	defaultPhone, _ := store.GetPreference(store.PrefContactPhone)
	contactName, err := prompt.Input("Contact name", defaultName)
	if err != nil {
		return err
	}
	contactPhone, err := prompt.Input("Contact phone", defaultPhone)
	if err != nil {
		return err
	}
	contact := service.ContactInfo{Name: contactName, Phone: contactPhone}

	accountPhone, _ := store.GetPreference(store.PrefPhone)
	cfg, err := service.AssemblePurchase(session, catalog.ProjectName, sku, selected, addr, contact, accountPhone)
	if err != nil {
		return err
	}

	// the accepted contact becomes the next run's default
	if err := store.SetPreference(store.PrefContactName, contact.Name); err != nil {
		slog.Warn("could not store contact name", "error", err)
	}
	if err := store.SetPreference(store.PrefContactPhone, contact.Phone); err != nil {
		slog.Warn("could not store contact phone", "error", err)
	}

	path, err := service.SavePurchaseConfig(cfg, settings.OutputDir)
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render("Purchase configuration written."))
	fmt.Printf("File:       %s\n", path)
	fmt.Printf("Purchasers: %d\n", cfg.Count)
	fmt.Printf("Total:      ¥%.2f\n", float64(cfg.PayMoney)/100)
	fmt.Println(faintStyle.Render("Feed this file to the purchase engine to place the order."))
	return nil
}
