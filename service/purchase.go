package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bili-ticket-cli/model"
)

// ContactInfo is the order contact. Both fields are required.
type ContactInfo struct {
	Name  string
	Phone string
}

var filenameStripper = strings.NewReplacer(
	"/", "", ":", "", "*", "", "?", "", `"`, "", "<", "", ">", "", "|", "",
)

// SanitizeFilename strips characters that are invalid in filenames on
// common filesystems.
func SanitizeFilename(name string) string {
	return filenameStripper.Replace(name)
}

// BuildDescription produces the record's human-readable identity: account,
// project and ticket summary, then one segment per selected buyer in
// selection order.
func BuildDescription(username, projectName string, sku model.TicketSKU, buyers []model.Buyer) string {
	var b strings.Builder
	b.WriteString(username)
	b.WriteString("-")
	b.WriteString(projectName)
	b.WriteString("-")
	b.WriteString(sku.Summary())
	for _, buyer := range buyers {
		b.WriteString("-")
		b.WriteString(buyer.Name)
	}
	return b.String()
}

// AssemblePurchase combines the session identity and the user's selections
// into one purchase configuration. It either returns a complete record or
// an error; nothing partial.
func AssemblePurchase(session *Session, projectName string, sku model.TicketSKU, buyers []model.Buyer, addr model.Address, contact ContactInfo, phone string) (*model.PurchaseConfig, error) {
	if strings.TrimSpace(contact.Name) == "" || strings.TrimSpace(contact.Phone) == "" {
		return nil, ErrMissingContact
	}
	if len(buyers) == 0 {
		return nil, fmt.Errorf("%w: at least one purchaser must be selected", ErrEmptyRoster)
	}

	return &model.PurchaseConfig{
		Username:     session.Username,
		Detail:       BuildDescription(session.Username, projectName, sku, buyers),
		Count:        len(buyers),
		ScreenID:     sku.ScreenID,
		ProjectID:    sku.ProjectID,
		IsHotProject: sku.HotProject,
		SkuID:        sku.ID,
		OrderType:    1,
		PayMoney:     sku.EffectivePrice() * int64(len(buyers)),
		BuyerInfo:    buyers,
		Buyer:        contact.Name,
		Tel:          contact.Phone,
		DeliverInfo: model.DeliverInfo{
			Name:   addr.Name,
			Tel:    addr.Phone,
			AddrID: addr.ID,
			Addr:   addr.FullAddress(),
		},
		Cookies: session.Cookies,
		Phone:   phone,
	}, nil
}

// SavePurchaseConfig writes the record as indented UTF-8 JSON into dir,
// named after the sanitized description. An existing file of the same name
// is overwritten.
func SavePurchaseConfig(cfg *model.PurchaseConfig, dir string) (string, error) {
	payload, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode purchase config: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, SanitizeFilename(cfg.Detail)+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
