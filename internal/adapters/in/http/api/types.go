package api

// Timestamps are Unix seconds.

type NewDelivery struct {
	Amount      uint64 `json:"amount"`
	Buyer       string `json:"buyer"`
	Description string `json:"description"`
}

type CreatedDelivery struct {
	Id string `json:"id"`
}

type IssuedOtp struct {
	ExpiresAt uint64 `json:"expires_at"`
	Otp       string `json:"otp"`
}

type Confirmation struct {
	Otp string `json:"otp"`
}

type ConfirmedDelivery struct {
	ReceiptId string `json:"receipt_id"`
}

type StatusChange struct {
	At     uint64 `json:"at"`
	Status string `json:"status"`
}

type Delivery struct {
	Amount           uint64         `json:"amount"`
	Buyer            string         `json:"buyer"`
	CancelledAt      *uint64        `json:"cancelled_at,omitempty"`
	ConfirmedAt      *uint64        `json:"confirmed_at,omitempty"`
	CreatedAt        uint64         `json:"created_at"`
	DeliveredAt      *uint64        `json:"delivered_at,omitempty"`
	Description      string         `json:"description"`
	EscrowReleasedAt *uint64        `json:"escrow_released_at,omitempty"`
	Id               string         `json:"id"`
	InTransitAt      *uint64        `json:"in_transit_at,omitempty"`
	Otp              *string        `json:"otp,omitempty"`
	OtpExpiresAt     *uint64        `json:"otp_expires_at,omitempty"`
	Seller           string         `json:"seller"`
	Status           string         `json:"status"`
	StatusHistory    []StatusChange `json:"status_history"`
}

type Receipt struct {
	DeliveryId string `json:"delivery_id"`
	Id         string `json:"id"`
	Metadata   string `json:"metadata"`
	MintedAt   uint64 `json:"minted_at"`
	Owner      string `json:"owner"`
}

type Notification struct {
	CreatedAt  uint64 `json:"created_at"`
	DeliveryId string `json:"delivery_id"`
	Id         string `json:"id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Read       bool   `json:"read"`
}

type EscrowBalance struct {
	Balance uint64 `json:"balance"`
}

type Error struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ListDeliveriesParams defines parameters for ListDeliveries.
type ListDeliveriesParams struct {
	Buyer  *string `form:"buyer,omitempty" json:"buyer,omitempty"`
	Seller *string `form:"seller,omitempty" json:"seller,omitempty"`
}
