package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/apiclient"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.CheckoutFromEnv()

	var (
		coupon    string
		method    string
		addressID string
		billing   bool
	)
	flag.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "storefront API base URL")
	flag.StringVar(&cfg.APIToken, "token", cfg.APIToken, "bearer token")
	flag.StringVar(&coupon, "coupon", "", "coupon code to apply")
	flag.StringVar(&method, "method", "", "payment method: credit-card, paypal, cod, razorpay or bank-transfer (default: saved default)")
	flag.StringVar(&addressID, "address", "", `saved address id, or "new" to enter one (default: saved default)`)
	flag.BoolVar(&billing, "billing", false, "enter a separate billing address")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	con := newConsole(os.Stdin, os.Stdout)
	api := apiclient.New(apiclient.Config{BaseURL: cfg.APIBaseURL, Token: cfg.APIToken, Timeout: cfg.RequestTimeout}, logger)

	cart := checkout.NewCartStore(api, con, logger)
	coupons := checkout.NewCouponResolver(api, con, logger)
	addresses := checkout.NewAddressManager(api, con, logger)
	payments := checkout.NewPaymentMethodSelector(api, con, logger)
	bridge := checkout.NewRazorpayBridge(api, newGateway(con, cfg.GatewayScriptURL, cfg.RequestTimeout), con, con, logger)
	submitter := checkout.NewOrderSubmitter(checkout.Components{
		API:       api,
		Cart:      cart,
		Coupons:   coupons,
		Addresses: addresses,
		Payments:  payments,
		Bridge:    bridge,
		Notify:    con,
		Navigate:  con,
	}, checkout.SubmitOptions{ShippingFee: cfg.ShippingFee, Tax: cfg.Tax}, logger)

	if err := cart.Fetch(ctx); err != nil {
		os.Exit(1)
	}
	printCart(con, cart)

	// The lists load independently; a failure in one leaves the others usable.
	_ = addresses.Fetch(ctx)
	_ = payments.Fetch(ctx)
	_ = payments.FetchSettings(ctx)
	if err := bridge.Load(ctx); err != nil {
		logger.Warn("online payment unavailable", zap.Error(err))
	}

	if coupon != "" {
		_ = coupons.Apply(ctx, coupon, cart.Subtotal())
	}

	if err := chooseAddress(ctx, con, addresses, addressID); err != nil {
		os.Exit(1)
	}
	if billing {
		form := con.askForm(checkout.AddressForm{})
		submitter.SetBillingForm(&form)
	}
	ship, _ := addresses.ShippingAddress()
	if err := choosePayment(con, payments, method, submitter.Summary(ship.State).Total); err != nil {
		os.Exit(1)
	}

	printSummary(con, submitter.Summary(ship.State))
	if con.ask("Place order? (y/n)", "y") != "y" {
		return
	}

	order, err := submitter.Submit(ctx)
	if err != nil {
		if !checkout.IsValidation(err) {
			logger.Error("checkout failed", zap.Error(err), zap.String("state", string(submitter.State())))
		}
		os.Exit(1)
	}
	if submitter.State() == checkout.StateAwaitingPayment {
		fmt.Fprintf(con.out, "Order %s is awaiting payment.\n", order.ID)
		return
	}
	printOrder(ctx, con, api, order)
}

func chooseAddress(ctx context.Context, con *console, addresses *checkout.AddressManager, id string) error {
	for _, a := range addresses.Addresses() {
		fmt.Fprintf(con.out, "  [%s] %s, %s, %s %s\n", a.ID, a.FullName, a.AddressLine1, a.City, a.PostalCode)
	}
	if id == "" {
		id = addresses.Selected()
	}
	if id != checkout.NewAddress {
		if err := addresses.Select(id); err != nil {
			con.Error(err.Error())
			return err
		}
		return nil
	}
	if err := addresses.Select(checkout.NewAddress); err != nil {
		return err
	}
	addresses.SetForm(con.askForm(addresses.Form()))
	if con.ask("Save this address? (y/n)", "y") == "y" {
		if _, err := addresses.SaveNew(ctx); err != nil {
			return err
		}
	}
	return nil
}

func choosePayment(con *console, payments *checkout.PaymentMethodSelector, method string, total decimal.Decimal) error {
	if method == "" {
		if t, _ := payments.Selected(); t != "" {
			return nil
		}
		fmt.Fprintf(con.out, "Available: %v\n", payments.Options(total))
		method = con.ask("Payment method", string(domain.PaymentCard))
	}
	if err := payments.Choose(domain.PaymentMethodType(method), total); err != nil {
		con.Error(err.Error())
		return err
	}
	switch domain.PaymentMethodType(method) {
	case domain.PaymentCard:
		payments.SetCard(checkout.CardForm{
			Number: con.ask("Card number", ""),
			Holder: con.ask("Card holder", ""),
			Expiry: con.ask("Expiry (MM/YY)", ""),
		})
	case domain.PaymentPayPal:
		payments.SetPayPalEmail(con.ask("PayPal email", ""))
	case domain.PaymentBankTransfer:
		payments.SetAccountName(con.ask("Account name", ""))
	}
	return nil
}

func printCart(con *console, cart *checkout.CartStore) {
	if cart.IsEmpty() {
		fmt.Fprintln(con.out, "Your cart is empty.")
		return
	}
	for _, it := range cart.Items() {
		fmt.Fprintf(con.out, "  %-30s %3d × %10s = %10s\n", it.Name, it.Quantity, it.EffectivePrice().StringFixed(2), it.LineTotal().StringFixed(2))
	}
}

func printSummary(con *console, s checkout.Summary) {
	fmt.Fprintf(con.out, "Subtotal  %10s\n", s.Subtotal.StringFixed(2))
	if !s.Discount.IsZero() {
		fmt.Fprintf(con.out, "Discount -%10s\n", s.Discount.StringFixed(2))
	}
	fmt.Fprintf(con.out, "Shipping  %10s\n", s.Shipping.StringFixed(2))
	fmt.Fprintf(con.out, "Total     %10s (estimate)\n", s.Total.StringFixed(2))
	fmt.Fprintf(con.out, "  incl. base %s", s.Tax.Base.StringFixed(2))
	for _, l := range s.Tax.Lines {
		fmt.Fprintf(con.out, ", %s %s", l.Label, l.Amount.StringFixed(2))
	}
	fmt.Fprintln(con.out)
}

func printOrder(ctx context.Context, con *console, api *apiclient.Client, created *domain.Order) {
	order, err := api.Order(ctx, created.ID)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			con.Error("Failed to load order: " + err.Error())
		}
		order = created
	}
	fmt.Fprintf(con.out, "Order %s: %s, payment %s, total %s %s\n", order.ID, order.Status, order.PaymentStatus, order.Total.StringFixed(2), order.Currency)
}
