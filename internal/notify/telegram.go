package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tillpoint/internal/domain"
	applog "tillpoint/internal/log"
)

// Notifier posts order events to a Telegram chat. Sends are fire and
// forget: they run detached, are never awaited for correctness, and are
// never retried. Failures are only logged.
type Notifier struct {
	Client  *http.Client
	BaseURL string // overridable in tests

	// Fallback credentials from the environment, used when settings
	// carry none.
	DefaultToken string
	DefaultChat  string
}

func New(defaultToken, defaultChat string) *Notifier {
	return &Notifier{
		Client:       &http.Client{Timeout: 10 * time.Second},
		BaseURL:      "https://api.telegram.org",
		DefaultToken: defaultToken,
		DefaultChat:  defaultChat,
	}
}

func (n *Notifier) creds(st domain.Settings) (string, string) {
	token, chat := st.TelegramBotToken, st.TelegramChatID
	if token == "" || chat == "" {
		token, chat = n.DefaultToken, n.DefaultChat
	}
	return token, chat
}

// OrderCreated announces a committed order. Returns immediately.
func (n *Notifier) OrderCreated(st domain.Settings, o domain.Order) {
	token, chat := n.creds(st)
	if token == "" || chat == "" {
		return
	}
	go func() {
		if err := n.Send(token, chat, FormatOrderMessage(o)); err != nil {
			applog.Error(nil, "notify.order_created.fail", err, map[string]any{"order_id": o.ID})
		}
	}()
}

// OrderDeleted announces an order removed from history. Returns immediately.
func (n *Notifier) OrderDeleted(st domain.Settings, o domain.Order) {
	token, chat := n.creds(st)
	if token == "" || chat == "" {
		return
	}
	go func() {
		if err := n.Send(token, chat, FormatDeleteMessage(o)); err != nil {
			applog.Error(nil, "notify.order_deleted.fail", err, map[string]any{"order_id": o.ID})
		}
	}()
}

// Send posts one sendMessage call synchronously.
func (n *Notifier) Send(token, chatID, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.BaseURL, token)
	resp, err := n.Client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram: status %d: %s", resp.StatusCode, msg)
	}
	return nil
}

// FormatOrderMessage renders the order-created template.
func FormatOrderMessage(o domain.Order) string {
	var items strings.Builder
	for _, it := range o.Items {
		fmt.Fprintf(&items, "- %s (x%d) - %.2f\n", it.Name, it.Quantity, it.Total)
	}

	name := o.Customer.Name
	if name == "" {
		name = "Guest"
	}
	phone := o.Customer.Phone
	if phone == "" {
		phone = "N/A"
	}

	return strings.TrimSpace(fmt.Sprintf(`<b>New Order Received</b>

<b>Customer:</b> %s
<b>Phone:</b> %s
<b>Payment:</b> %s

<b>Items:</b>
%s
<b>Subtotal:</b> %.2f
<b>Discount:</b> -%.2f
<b>TOTAL:</b> %.2f

#Order%d`, name, phone, o.PaymentMethod, items.String(), o.Subtotal, o.DiscountAmount, o.Total, o.ID))
}

// FormatDeleteMessage renders the order-deleted template.
func FormatDeleteMessage(o domain.Order) string {
	name := o.Customer.Name
	if name == "" {
		name = "Guest"
	}
	return strings.TrimSpace(fmt.Sprintf(`<b>Order Cancelled/Deleted</b>

<b>Order ID:</b> #%d
<b>Customer:</b> %s
<b>Amount:</b> %.2f

The order has been removed from the history.`, o.ID, name, o.Total))
}
