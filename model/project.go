package model

// APIEnvelope is the common wrapper of the vendor's JSON responses. The
// show API reports failures in "errno"/"msg", older endpoints use
// "code"/"message"; both are zero on success.
type APIEnvelope[T any] struct {
	Errno   int    `json:"errno"`
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// StatusCode returns the vendor status, preferring errno when set.
func (e *APIEnvelope[T]) StatusCode() int {
	if e.Errno != 0 {
		return e.Errno
	}
	return e.Code
}

// StatusMessage returns the vendor's failure message, whichever field
// carries it.
func (e *APIEnvelope[T]) StatusMessage() string {
	if e.Errno != 0 && e.Msg != "" {
		return e.Msg
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Msg
}

// ProjectDetail is the raw project payload of the getV2 endpoint, before
// normalization.
type ProjectDetail struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	HotProject bool         `json:"hotProject"`
	HasEticket bool         `json:"has_eticket"`
	StartTime  int64        `json:"start_time"`
	EndTime    int64        `json:"end_time"`
	VenueInfo  VenueInfo    `json:"venue_info"`
	ScreenList []ScreenInfo `json:"screen_list"`
	SalesDates []SaleDate   `json:"sales_dates"`
}

type VenueInfo struct {
	Name          string `json:"name"`
	AddressDetail string `json:"address_detail"`
}

type SaleDate struct {
	Date string `json:"date"`
}

// ScreenInfo is a raw screen entry. Entries without a name are junk rows
// the vendor sometimes emits and are dropped during normalization.
type ScreenInfo struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	ProjectID  int64        `json:"project_id"`
	ExpressFee int64        `json:"express_fee"`
	TicketList []TicketInfo `json:"ticket_list"`
}

// TicketInfo is a raw ticket entry under a screen. Price is in currency
// minor units.
type TicketInfo struct {
	ID             int64  `json:"id"`
	Desc           string `json:"desc"`
	Price          int64  `json:"price"`
	SaleStart      string `json:"sale_start"`
	SaleFlagNumber int    `json:"sale_flag_number"`
	Clickable      bool   `json:"clickable"`
}
