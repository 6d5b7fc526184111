package ports

import "context"

// PaymentGateway wraps the external card processor. CreateIntent registers
// the charge and returns the client secret the browser needs to confirm it.
// Confirmation itself happens between the browser and the processor; this
// service only sees the resulting transaction id via POST /funds.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64) (clientSecret string, err error)
}
