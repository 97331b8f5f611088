// Package mailer sends transactional email through the Resend REST API.
// Failures are for the caller to log; order flow never depends on email.
package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mMahabub/proshopp-api/models"
)

const apiURL = "https://api.resend.com/emails"

type Mailer struct {
	apiKey string
	from   string
	client *http.Client
}

func New(apiKey, from string) *Mailer {
	return &Mailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether an API key was configured.
func (m *Mailer) Enabled() bool { return m != nil && m.apiKey != "" }

// SendOrderConfirmation emails the customer after payment is confirmed.
func (m *Mailer) SendOrderConfirmation(to string, order models.Order) error {
	if !m.Enabled() {
		return nil
	}

	payload := map[string]any{
		"from":    m.from,
		"to":      []string{to},
		"subject": fmt.Sprintf("Order %s confirmed", order.OrderNumber),
		"html":    orderConfirmationHTML(order),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach Resend: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend API error (%d): %s", resp.StatusCode, string(body))
	}
	return nil
}

func orderConfirmationHTML(order models.Order) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<h2>Thanks for your order!</h2>")
	fmt.Fprintf(&b, "<p>Order <strong>%s</strong> has been paid.</p><ul>", order.OrderNumber)
	for _, it := range order.Items {
		fmt.Fprintf(&b, "<li>%s x %d: %.2f</li>", it.ProductName, it.Quantity, it.Price*float64(it.Quantity))
	}
	fmt.Fprintf(&b, "</ul><p>Subtotal %.2f · Tax %.2f · Shipping %.2f · Total <strong>%.2f</strong></p>",
		order.Subtotal, order.Tax, order.ShippingCost, order.TotalPrice)
	return b.String()
}
