package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
)

type Kind string

const (
	KindProducts Kind = "products"
	KindCoupons  Kind = "coupons"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CouponWriter interface {
	Upsert(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
}

// CSVImporter reads catalog CSV files and upserts their rows. Products are
// keyed by sku, coupons by code.
type CSVImporter struct {
	reader  *csv.Reader
	headers []string
	kind    Kind

	productRepo ProductWriter
	couponRepo  CouponWriter
	logger      *zap.Logger
}

func NewCSVImporter(r io.Reader, products ProductWriter, coupons CouponWriter, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		productRepo: products,
		couponRepo:  coupons,
		logger:      logging.OrNop(logger),
	}
}

// DetectKind reads the header row and reports what the file contains.
func DetectKind(r io.Reader) (Kind, error) {
	headers, err := csv.NewReader(r).Read()
	if err != nil {
		return "", fmt.Errorf("read headers: %w", err)
	}
	return kindOf(headerIndex(headers))
}

func kindOf(index map[string]int) (Kind, error) {
	if _, ok := index["sku"]; ok {
		return KindProducts, nil
	}
	if _, ok := index["code"]; ok {
		return KindCoupons, nil
	}
	return "", errors.New("unrecognised CSV: expected a sku or code column")
}

// Run parses all rows and upserts them. It stops at the first invalid row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	kind, err := kindOf(index)
	if err != nil {
		return 0, err
	}
	if kind == KindProducts && i.productRepo == nil {
		return 0, errors.New("product repository not configured")
	}
	if kind == KindCoupons && i.couponRepo == nil {
		return 0, errors.New("coupon repository not configured")
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		switch kind {
		case KindProducts:
			err = i.saveProduct(ctx, record, index)
		case KindCoupons:
			err = i.saveCoupon(ctx, record, index)
		}
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		imported++
	}
	i.logger.Info("csv import finished", zap.String("kind", string(kind)), zap.Int("rows", imported))
	return imported, nil
}

func (i *CSVImporter) saveProduct(ctx context.Context, record []string, index map[string]int) error {
	p := domain.Product{
		SKU:         pick(record, index, "sku"),
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		Currency:    strings.ToUpper(pick(record, index, "currency")),
	}
	if p.SKU == "" || p.Name == "" {
		return fmt.Errorf("invalid product row (missing sku or name) for sku %q", p.SKU)
	}
	price, err := parseMoney(pick(record, index, "price"))
	if err != nil || !price.IsPositive() {
		return fmt.Errorf("invalid price for sku %q", p.SKU)
	}
	p.Price = price
	if s := pick(record, index, "sale_price"); s != "" {
		sale, err := parseMoney(s)
		if err != nil || sale.IsNegative() || sale.GreaterThan(price) {
			return fmt.Errorf("invalid sale_price for sku %q: %s", p.SKU, s)
		}
		p.SalePrice = &sale
	}
	if s := pick(record, index, "stock"); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil || stock < 0 {
			return fmt.Errorf("invalid stock for sku %q: %s", p.SKU, s)
		}
		p.Stock = stock
	}

	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", p.SKU, err)
	}
	return nil
}

func (i *CSVImporter) saveCoupon(ctx context.Context, record []string, index map[string]int) error {
	c := domain.Coupon{
		Code:         strings.ToUpper(pick(record, index, "code")),
		DiscountType: domain.DiscountType(strings.ToLower(pick(record, index, "discount_type"))),
		Description:  pick(record, index, "description"),
		Active:       true,
	}
	if c.Code == "" {
		return errors.New("invalid coupon row (missing code)")
	}
	if c.DiscountType != domain.DiscountPercentage && c.DiscountType != domain.DiscountFixed {
		return fmt.Errorf("coupon %s: discount_type must be percentage or fixed", c.Code)
	}
	value, err := parseMoney(pick(record, index, "discount_value"))
	if err != nil || !value.IsPositive() {
		return fmt.Errorf("coupon %s: invalid discount_value", c.Code)
	}
	if c.DiscountType == domain.DiscountPercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("coupon %s: percentage above 100", c.Code)
	}
	c.DiscountValue = value

	if s := pick(record, index, "min_order_value"); s != "" {
		if c.MinOrderValue, err = parseMoney(s); err != nil {
			return fmt.Errorf("coupon %s: invalid min_order_value", c.Code)
		}
	}
	if s := pick(record, index, "max_discount"); s != "" {
		maxDiscount, err := parseMoney(s)
		if err != nil {
			return fmt.Errorf("coupon %s: invalid max_discount", c.Code)
		}
		c.MaxDiscount = &maxDiscount
	}
	if s := pick(record, index, "expires_at"); s != "" {
		at, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("coupon %s: expires_at must be RFC 3339: %w", c.Code, err)
		}
		c.ExpiresAt = &at
	}
	if s := pick(record, index, "usage_limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			return fmt.Errorf("coupon %s: invalid usage_limit", c.Code)
		}
		c.UsageLimit = &limit
	}
	if s := pick(record, index, "active"); s != "" {
		if c.Active, err = strconv.ParseBool(s); err != nil {
			return fmt.Errorf("coupon %s: invalid active flag", c.Code)
		}
	}

	if _, err := i.couponRepo.Upsert(ctx, c); err != nil {
		return fmt.Errorf("upsert coupon %q: %w", c.Code, err)
	}
	return nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "₹")
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(2), nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
