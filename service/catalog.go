package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"bili-ticket-cli/model"
)

// Vendor status for an id it does not recognize.
const vendorCodeInvalidProject = 100001

// ExtractProjectID resolves a project reference: either a vendor URL whose
// id query parameter carries the project id, or a bare id string.
func ExtractProjectID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrInvalidReference
	}
	if !strings.Contains(ref, "http") {
		return ref, nil
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidReference, ref)
	}
	id := parsed.Query().Get("id")
	if id == "" {
		return "", fmt.Errorf("%w: no id parameter in %s", ErrInvalidReference, ref)
	}
	return id, nil
}

// ResolveCatalog fetches a project's detail payload and normalizes it into
// a flat, priced, labeled catalog. An empty catalog is a valid result.
func (c *Client) ResolveCatalog(ctx context.Context, ref string) (*model.Catalog, error) {
	id, err := ExtractProjectID(ref)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/ticket/project/getV2?version=134&id=%s&project_id=%s",
		c.showURL, url.QueryEscape(id), url.QueryEscape(id))

	var env model.APIEnvelope[model.ProjectDetail]
	if err := c.getJSON(ctx, endpoint, &env); err != nil {
		return nil, err
	}
	switch code := env.StatusCode(); {
	case code == vendorCodeInvalidProject:
		return nil, fmt.Errorf("%w: %s", ErrInvalidReference, id)
	case code != 0:
		return nil, &VendorError{Code: code, Message: env.StatusMessage()}
	}

	return normalizeCatalog(&env.Data), nil
}

func normalizeCatalog(detail *model.ProjectDetail) *model.Catalog {
	catalog := &model.Catalog{
		ProjectID:   detail.ID,
		ProjectName: detail.Name,
		HotProject:  detail.HotProject,
		HasEticket:  detail.HasEticket,
		StartTime:   detail.StartTime,
		EndTime:     detail.EndTime,
		Venue:       detail.VenueInfo,
	}
	for _, d := range detail.SalesDates {
		catalog.SalesDates = append(catalog.SalesDates, d.Date)
	}

	for _, raw := range detail.ScreenList {
		if raw.Name == "" {
			continue
		}
		fee := screenExpressFee(detail.HasEticket, raw.ExpressFee)
		screenProjectID := raw.ProjectID
		if screenProjectID == 0 {
			screenProjectID = detail.ID
		}
		screen := model.Screen{
			ID:         raw.ID,
			Name:       raw.Name,
			ProjectID:  screenProjectID,
			ExpressFee: fee,
		}
		for _, t := range raw.TicketList {
			saleStart := t.SaleStart
			if saleStart == "" {
				saleStart = "未知"
			}
			screen.Tickets = append(screen.Tickets, model.TicketSKU{
				ID:         t.ID,
				Desc:       t.Desc,
				BasePrice:  t.Price,
				ExpressFee: fee,
				SaleFlag:   t.SaleFlagNumber,
				SaleStatus: model.SalesFlagLabel(t.SaleFlagNumber),
				SaleStart:  saleStart,
				Clickable:  t.Clickable,
				ScreenID:   raw.ID,
				ScreenName: raw.Name,
				ProjectID:  screenProjectID,
				HotProject: detail.HotProject,
			})
		}
		catalog.Screens = append(catalog.Screens, screen)
	}
	return catalog
}

// screenExpressFee applies the delivery surcharge rules: e-ticket projects
// never charge it, and a negative declared fee counts as none.
func screenExpressFee(hasEticket bool, declared int64) int64 {
	if hasEticket || declared < 0 {
		return 0
	}
	return declared
}
