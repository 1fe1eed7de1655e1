package notify

import (
	"fmt"
	"sort"
	"strings"
	"webshop-service/internal/domain"

	"github.com/shopspring/decimal"
)

const currency = "€"

func money(d decimal.Decimal) string {
	return currency + d.StringFixed(2)
}

// Title is the one line headline of an event.
func Title(evt domain.NotificationEvent) string {
	switch evt.Type {
	case domain.EventSignUp:
		return "New user signed up"
	case domain.EventLogin:
		return "User logged in"
	case domain.EventLogout:
		return "User logged out"
	case domain.EventProfileEdit:
		return "Profile updated"
	case domain.EventAddToCart:
		return "Product added to cart"
	case domain.EventNewOrder:
		return "New order received"
	default:
		return string(evt.Type)
	}
}

// Body renders the event details as plain text.
func Body(evt domain.NotificationEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User: %s\n", userLabel(evt))
	if evt.Username != "" {
		fmt.Fprintf(&b, "Username: %s\n", evt.Username)
	}

	switch {
	case evt.Product != nil:
		p := evt.Product
		fmt.Fprintf(&b, "Product: %s x%d (%s)\n", p.Name, p.Quantity, money(p.Price))
	case evt.Order != nil:
		o := evt.Order
		fmt.Fprintf(&b, "Order: #%s\n", o.OrderNumber)
		fmt.Fprintf(&b, "Customer: %s\n", o.Customer)
		fmt.Fprintf(&b, "Phone: %s\n", o.Phone)
		fmt.Fprintf(&b, "Address: %s, %s (%s)\n", o.Address, o.City, o.ZipCode)
		fmt.Fprintf(&b, "Items: %d\n", len(o.Items))
		for _, it := range o.Items {
			fmt.Fprintf(&b, "• %s x%d: %s\n", it.Name, it.Quantity, money(it.LineTotal))
		}
		fmt.Fprintf(&b, "Total: %s\n", money(o.TotalAmount))
	case len(evt.Changes) > 0:
		keys := make([]string, 0, len(evt.Changes))
		for k := range evt.Changes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %s\n", k, evt.Changes[k])
		}
	}

	fmt.Fprintf(&b, "Time: %s", evt.Timestamp.Format("2006-01-02 15:04:05 MST"))
	return b.String()
}

func userLabel(evt domain.NotificationEvent) string {
	if evt.Email != "" {
		return evt.Email
	}
	return evt.UserID
}
