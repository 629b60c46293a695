package service

import (
	"context"
	"fmt"

	"bili-ticket-cli/model"
)

// FetchBuyers lists the account's registered purchaser identities for a
// project. An empty list is valid and means the user has to add purchasers
// in the vendor's own app.
func (c *Client) FetchBuyers(ctx context.Context, projectID int64) ([]model.Buyer, error) {
	endpoint := fmt.Sprintf("%s/api/ticket/buyer/list?is_default&projectId=%d", c.showURL, projectID)

	var env model.APIEnvelope[model.BuyerListData]
	if err := c.getJSON(ctx, endpoint, &env); err != nil {
		return nil, err
	}
	if code := env.StatusCode(); code != 0 {
		return nil, &VendorError{Code: code, Message: env.StatusMessage()}
	}
	return env.Data.List, nil
}

// FetchAddresses lists the account's shipping addresses. An empty list is
// valid, same as FetchBuyers.
func (c *Client) FetchAddresses(ctx context.Context) ([]model.Address, error) {
	var env model.APIEnvelope[model.AddressListData]
	if err := c.getJSON(ctx, c.showURL+"/api/ticket/addr/list", &env); err != nil {
		return nil, err
	}
	if code := env.StatusCode(); code != 0 {
		return nil, &VendorError{Code: code, Message: env.StatusMessage()}
	}
	return env.Data.AddrList, nil
}
