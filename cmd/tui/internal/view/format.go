package view

import (
	"context"
	"time"

	"github.com/toby-sam/budget/internal/money"
)

const storeTimeout = 5 * time.Second

// FormatAmount formats an AUD amount for display.
func FormatAmount(v float64) string {
	return money.FormatAUD(v)
}

func FormatPHP(v float64) string {
	return money.FormatPHP(v)
}

// StoreCtx returns a context with a standard timeout for store writes.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
