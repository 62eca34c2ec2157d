// Package billing — клиент биллинг-провайдера (Stripe): hosted checkout сессии,
// отмена автопродления подписки, поиск клиента по email и список инвойсов.
package billing

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/invoice"
	"github.com/stripe/stripe-go/v82/subscription"
)

// PaymentStatusPaid — статус оплаченной checkout-сессии.
const PaymentStatusPaid = "paid"

// CheckoutSession — усечённое представление hosted checkout сессии,
// достаточное для активации премиума.
type CheckoutSession struct {
	ID             string
	URL            string
	PaymentStatus  string
	SubscriptionID string
	Metadata       map[string]string
}

// Invoice — усечённое представление инвойса Stripe для истории платежей.
type Invoice struct {
	ID              string
	AmountPaid      int64
	Currency        string
	Created         int64
	Status          string
	Description     string
	PeriodStart     int64
	LineDescription string
}

// Client реализует вызовы к Stripe API.
type Client struct {
	catalog Catalog
}

// NewClient настраивает глобальный ключ SDK и возвращает клиент.
func NewClient(apiKey string, catalog Catalog) *Client {
	stripe.Key = apiKey
	return &Client{catalog: catalog}
}

// Catalog возвращает каталог тарифов, с которым создан клиент.
func (c *Client) Catalog() Catalog {
	return c.catalog
}

// CreateCheckoutSession создаёт hosted checkout сессию в режиме подписки
// для указанного email и возвращает её с redirect URL.
func (c *Client) CreateCheckoutSession(_ context.Context, email, priceID, successURL, cancelURL string,
	metadata map[string]string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail:      stripe.String(email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("billing: create checkout session: %w", err)
	}
	return newCheckoutSession(s), nil
}

// RetrieveCheckoutSession перечитывает состояние checkout-сессии у провайдера.
func (c *Client) RetrieveCheckoutSession(_ context.Context, sessionID string) (*CheckoutSession, error) {
	s, err := session.Get(sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("billing: retrieve checkout session: %w", err)
	}
	return newCheckoutSession(s), nil
}

func newCheckoutSession(s *stripe.CheckoutSession) *CheckoutSession {
	cs := &CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		Metadata:      s.Metadata,
	}
	if s.Subscription != nil {
		cs.SubscriptionID = s.Subscription.ID
	}
	return cs
}

// CancelAtPeriodEnd выключает автопродление подписки на стороне провайдера:
// подписка доживает до конца оплаченного периода и не продлевается.
func (c *Client) CancelAtPeriodEnd(_ context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	if _, err := subscription.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("billing: cancel subscription at period end: %w", err)
	}
	return nil
}

// FindCustomerByEmail возвращает идентификатор клиента Stripe по email
// или пустую строку, если клиент не найден.
func (c *Client) FindCustomerByEmail(_ context.Context, email string) (string, error) {
	params := &stripe.CustomerListParams{
		Email: stripe.String(email),
	}
	params.Limit = stripe.Int64(1)

	it := customer.List(params)
	for it.Next() {
		return it.Customer().ID, nil
	}
	if err := it.Err(); err != nil {
		return "", fmt.Errorf("billing: list customers: %w", err)
	}
	return "", nil
}

// ListInvoices возвращает последние инвойсы клиента. Провайдер поддерживает
// только курсорную пагинацию, поэтому честный offset здесь не реализован —
// отдаётся первая страница размером limit.
func (c *Client) ListInvoices(_ context.Context, customerID string, limit int64) ([]*Invoice, error) {
	params := &stripe.InvoiceListParams{
		Customer: stripe.String(customerID),
	}
	params.Limit = stripe.Int64(limit)

	var result []*Invoice
	it := invoice.List(params)
	for it.Next() {
		inv := it.Invoice()
		item := &Invoice{
			ID:          inv.ID,
			AmountPaid:  inv.AmountPaid,
			Currency:    string(inv.Currency),
			Created:     inv.Created,
			Status:      string(inv.Status),
			Description: inv.Description,
			PeriodStart: inv.PeriodStart,
		}
		if inv.Lines != nil && len(inv.Lines.Data) > 0 {
			item.LineDescription = inv.Lines.Data[0].Description
		}
		result = append(result, item)
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("billing: list invoices: %w", err)
	}
	return result, nil
}
