package model

// DeliverInfo is the shipping block of a purchase configuration.
type DeliverInfo struct {
	Name   string `json:"name"`
	Tel    string `json:"tel"`
	AddrID int64  `json:"addr_id"`
	Addr   string `json:"addr"`
}

// PurchaseConfig is the artifact the purchase engine consumes: one
// complete, self-contained order description. It is immutable once
// written; field names match what the engine expects.
type PurchaseConfig struct {
	Username     string            `json:"username"`
	Detail       string            `json:"detail"`
	Count        int               `json:"count"`
	ScreenID     int64             `json:"screen_id"`
	ProjectID    int64             `json:"project_id"`
	IsHotProject bool              `json:"is_hot_project"`
	SkuID        int64             `json:"sku_id"`
	OrderType    int               `json:"order_type"`
	PayMoney     int64             `json:"pay_money"`
	BuyerInfo    []Buyer           `json:"buyer_info"`
	Buyer        string            `json:"buyer"`
	Tel          string            `json:"tel"`
	DeliverInfo  DeliverInfo       `json:"deliver_info"`
	Cookies      map[string]string `json:"cookies"`
	Phone        string            `json:"phone"`
}
