package domain

// SyncState tracks how an optimistically written record relates to the
// remote store: tentative records carry a client-generated id until the
// remote confirms one (or the remote is unreachable/unconfigured).
type SyncState string

const (
	SyncTentative SyncState = "tentative"
	SyncConfirmed SyncState = "confirmed"
)

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code,omitempty"`
	Price       float64   `json:"price"`
	Cost        float64   `json:"cost"` // hidden from receipts
	Stock       int       `json:"stock"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   string    `json:"created_at,omitempty"`
	Sync        SyncState `json:"sync,omitempty"`
}

// CartLine is a product snapshot plus a quantity. Total is always
// quantity*price; it is recomputed on every mutation, never patched.
type CartLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Code      string  `json:"code,omitempty"`
	Price     float64 `json:"price"`
	Cost      float64 `json:"cost"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

const (
	DiscountFixed   = "fixed"
	DiscountPercent = "percent"
)

// Discount applies to the whole cart, never a single line.
type Discount struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Order struct {
	ID             int64      `json:"id"`
	CreatedAt      string     `json:"created_at"`
	Items          []CartLine `json:"items"`
	Customer       Customer   `json:"customer_info"`
	Discount       Discount   `json:"discount_info"`
	PaymentMethod  string     `json:"payment_method"`
	Subtotal       float64    `json:"subtotal"`
	DiscountAmount float64    `json:"discount_amount"`
	Total          float64    `json:"total_amount"`
	TotalProfit    float64    `json:"total_profit"`
	Sync           SyncState  `json:"sync,omitempty"`
}

// Settings live only in the local store; loaded once at startup and
// rewritten wholesale on every change.
type Settings struct {
	MerchantName     string `json:"merchant_name"`
	MerchantPhone    string `json:"merchant_phone"`
	TelegramBotToken string `json:"telegram_bot_token"`
	TelegramChatID   string `json:"telegram_chat_id"`
}

type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
}
