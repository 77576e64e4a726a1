package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/domain"
)

// console is the Notifier, Navigator and prompt of the terminal checkout.
type console struct {
	in  *bufio.Reader
	out io.Writer
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{in: bufio.NewReader(in), out: out}
}

func (c *console) Success(msg string) { fmt.Fprintf(c.out, "✔ %s\n", msg) }
func (c *console) Error(msg string)   { fmt.Fprintf(c.out, "✘ %s\n", msg) }

func (c *console) Navigate(path string) {
	fmt.Fprintf(c.out, "→ %s\n", path)
}

// ask prints prompt and returns the trimmed answer, or def when it is blank.
func (c *console) ask(prompt, def string) string {
	if def != "" {
		fmt.Fprintf(c.out, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(c.out, "%s: ", prompt)
	}
	line, _ := c.in.ReadString('\n')
	if v := strings.TrimSpace(line); v != "" {
		return v
	}
	return def
}

func (c *console) askForm(def checkout.AddressForm) checkout.AddressForm {
	return checkout.AddressForm{
		FirstName:   c.ask("First name", def.FirstName),
		LastName:    c.ask("Last name", def.LastName),
		Address:     c.ask("Address", def.Address),
		Address2:    c.ask("Address line 2", def.Address2),
		City:        c.ask("City", def.City),
		State:       c.ask("State", def.State),
		Zipcode:     c.ask("Zipcode", def.Zipcode),
		Country:     c.ask("Country", orDefault(def.Country, "India")),
		CountryCode: c.ask("Country code", orDefault(def.CountryCode, "+91")),
		Mobile:      c.ask("Mobile", def.Mobile),
	}
}

// terminalGateway stands in for the hosted Razorpay dialog: the shopper pays
// elsewhere and pastes the payment id and signature back.
type terminalGateway struct {
	console   *console
	scriptURL string
	http      *http.Client
}

func (g *terminalGateway) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, g.scriptURL, nil)
	if err != nil {
		return err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("load %s: %w", g.scriptURL, err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("load %s: status %d", g.scriptURL, resp.StatusCode)
	}
	return nil
}

func (g *terminalGateway) Open(_ context.Context, order domain.GatewayOrder) (checkout.GatewayResult, error) {
	c := g.console
	fmt.Fprintf(c.out, "\n%s: %s\n", orDefault(order.Name, "Razorpay"), order.Description)
	fmt.Fprintf(c.out, "  key %s, order %s, amount %s %s\n", order.Key, order.OrderID, domain.FromPaise(order.Amount).StringFixed(2), order.Currency)
	paymentID := c.ask("razorpay_payment_id (blank to cancel)", "")
	if paymentID == "" {
		return checkout.GatewayResult{Dismissed: true}, nil
	}
	return checkout.GatewayResult{
		OrderID:   c.ask("razorpay_order_id", order.OrderID),
		PaymentID: paymentID,
		Signature: c.ask("razorpay_signature", ""),
	}, nil
}

func newGateway(c *console, scriptURL string, timeout time.Duration) *terminalGateway {
	return &terminalGateway{console: c, scriptURL: scriptURL, http: &http.Client{Timeout: timeout}}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
