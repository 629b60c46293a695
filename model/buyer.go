package model

import "fmt"

// Buyer is a purchaser identity registered with the vendor account. The
// vendor fields ride along unmodified into the purchase configuration.
type Buyer struct {
	ID           int64  `json:"id"`
	UID          int64  `json:"uid"`
	Name         string `json:"name"`
	Tel          string `json:"tel"`
	PersonalID   string `json:"personal_id"`
	IDType       int    `json:"id_type"`
	IsDefault    int    `json:"is_default"`
	VerifyStatus int    `json:"verify_status"`
}

// Summary renders the selection-menu line for a buyer.
func (b Buyer) Summary() string {
	return fmt.Sprintf("%s - %s", b.Name, b.PersonalID)
}

// Address is a shipping address registered with the vendor account.
type Address struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Prov  string `json:"prov"`
	City  string `json:"city"`
	Area  string `json:"area"`
	Addr  string `json:"addr"`
}

// FullAddress is province, city, area and detail concatenated in that
// order, with no separators. Empty segments are allowed.
func (a Address) FullAddress() string {
	return a.Prov + a.City + a.Area + a.Addr
}

// Summary renders the selection-menu line for an address.
func (a Address) Summary() string {
	return fmt.Sprintf("%s - %s - %s", a.Name, a.Phone, a.Addr)
}

// BuyerListData is the payload of the buyer list endpoint.
type BuyerListData struct {
	List []Buyer `json:"list"`
}

// AddressListData is the payload of the address list endpoint.
type AddressListData struct {
	AddrList []Address `json:"addr_list"`
}
