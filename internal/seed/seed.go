// Package seed fills an empty storefront with deterministic fake data.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/bl815v/Tiendo/internal/authstore"
	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/internal/shopstore"
	"github.com/bl815v/Tiendo/pkg/models"
	"github.com/brianvoe/gofakeit/v6"
)

// DefaultPassword is the password of every seeded customer.
const DefaultPassword = "secret123"

type Config struct {
	Seed       int64
	Categories int
	Products   int
	Customers  int
	Orders     int
	// Force seeds even when the catalogue already has products.
	Force bool
}

func DefaultConfig() Config {
	return Config{
		Seed:       42,
		Categories: 5,
		Products:   40,
		Customers:  20,
		Orders:     30,
	}
}

// Result counts the rows inserted by Run.
type Result struct {
	Skipped    bool
	Categories int
	Products   int
	Customers  int
	Orders     int
	Payments   int
	Shipments  int
}

// SlowThreshold is how long a seed run may take before it is reported as slow.
const SlowThreshold = 30 * time.Second

type Seeder struct {
	log       *slog.Logger
	customers authstore.Store
	shop      shopstore.Store
	now       func() time.Time
	slowAfter time.Duration
}

func New(logger *slog.Logger, customers authstore.Store, shop shopstore.Store) *Seeder {
	return &Seeder{log: logger, customers: customers, shop: shop, now: time.Now, slowAfter: SlowThreshold}
}

// Run inserts the configured amount of categories, products, customers and
// orders. Non-pending orders also get a payment and a shipment.
func (s *Seeder) Run(ctx context.Context, cfg Config) (*Result, error) {
	var res *Result
	err := logutil.LogSlowOperation(s.log, s.slowAfter, "seeding database", func() error {
		var err error
		res, err = s.seed(ctx, cfg)
		return err
	}, "seed", cfg.Seed)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Seeder) seed(ctx context.Context, cfg Config) (*Result, error) {
	res := &Result{}

	if !cfg.Force {
		existing, err := s.shop.ListProducts(ctx, models.Page{Limit: 1})
		if err != nil {
			return nil, fmt.Errorf("checking catalogue: %w", err)
		}
		if len(existing) > 0 {
			s.log.Info("catalogue already has products, skipping seed")
			res.Skipped = true
			return res, nil
		}
	}

	f := gofakeit.New(cfg.Seed)

	categoryIDs := make([]int64, 0, cfg.Categories)
	for i := 0; i < cfg.Categories; i++ {
		desc := f.Sentence(8)
		c, err := s.shop.CreateCategory(ctx, models.CategoryParams{
			Name:        fmt.Sprintf("%s %d", f.ProductCategory(), i+1),
			Description: &desc,
		})
		if err != nil {
			return nil, fmt.Errorf("seeding category: %w", err)
		}
		categoryIDs = append(categoryIDs, c.ID)
		res.Categories++
	}

	products := make([]*models.Product, 0, cfg.Products)
	for i := 0; i < cfg.Products; i++ {
		p, err := s.shop.CreateProduct(ctx, s.fakeProduct(f, i, categoryIDs))
		if err != nil {
			return nil, fmt.Errorf("seeding product: %w", err)
		}
		products = append(products, p)
		res.Products++
	}

	customerIDs := make([]int64, 0, cfg.Customers)
	for i := 0; i < cfg.Customers; i++ {
		c, err := s.customers.Create(ctx, fakeCustomer(f, i))
		if err != nil {
			return nil, fmt.Errorf("seeding customer: %w", err)
		}
		customerIDs = append(customerIDs, c.ID)
		res.Customers++
	}

	if len(customerIDs) == 0 || len(products) == 0 {
		return res, nil
	}

	for i := 0; i < cfg.Orders; i++ {
		if err := s.seedOrder(ctx, f, customerIDs, products, res); err != nil {
			return nil, err
		}
	}

	s.log.Info("seed complete",
		"categories", res.Categories,
		"products", res.Products,
		"customers", res.Customers,
		"orders", res.Orders,
		"payments", res.Payments,
		"shipments", res.Shipments,
	)
	return res, nil
}

func (s *Seeder) fakeProduct(f *gofakeit.Faker, i int, categoryIDs []int64) models.ProductParams {
	desc := f.ProductDescription()
	price := roundCents(f.Float64Range(1, 500))
	p := models.ProductParams{
		Name:        fmt.Sprintf("%s #%d", f.ProductName(), i+1),
		Description: &desc,
		Price:       &price,
		Stock:       int64(f.Number(0, 50)),
	}
	// every fifth product has no image
	if i%5 != 4 {
		img := fmt.Sprintf("/static/img/productos/%d.jpg", i+1)
		p.Image = &img
	}
	if len(categoryIDs) > 0 {
		id := categoryIDs[f.Number(0, len(categoryIDs)-1)]
		p.CategoryID = &id
	}
	return p
}

func fakeCustomer(f *gofakeit.Faker, i int) models.CustomerParams {
	phone := f.Phone()
	street := f.Street()
	city := f.City()
	country := f.Country()
	first, last := f.FirstName(), f.LastName()
	return models.CustomerParams{
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s%d@example.com", emailPart(first), emailPart(last), i+1),
		Password:  DefaultPassword,
		Phone:     &phone,
		Address:   &street,
		City:      &city,
		Country:   &country,
	}
}

func (s *Seeder) seedOrder(ctx context.Context, f *gofakeit.Faker, customerIDs []int64, products []*models.Product, res *Result) error {
	customerID := customerIDs[f.Number(0, len(customerIDs)-1)]
	status := models.OrderStatuses[f.Number(0, len(models.OrderStatuses)-1)]
	placed := s.now().Add(-time.Duration(f.Number(0, 30*24)) * time.Hour)

	n := f.Number(1, 4)
	items := make([]models.LineItemParams, 0, n)
	total := 0.0
	for j := 0; j < n; j++ {
		p := products[f.Number(0, len(products)-1)]
		qty := int64(f.Number(1, 3))
		price := p.Price
		items = append(items, models.LineItemParams{ProductID: &p.ID, Quantity: &qty, UnitPrice: &price})
		total += price * float64(qty)
	}
	total = roundCents(total)

	o, err := s.shop.CreateOrder(ctx, models.OrderParams{
		CustomerID: &customerID,
		PlacedAt:   &placed,
		Total:      &total,
		Status:     status,
		Items:      items,
	})
	if err != nil {
		return fmt.Errorf("seeding order: %w", err)
	}
	res.Orders++

	if status == models.OrderPending {
		return nil
	}

	paid := placed.Add(time.Duration(f.Number(1, 120)) * time.Minute)
	_, err = s.shop.CreatePayment(ctx, models.PaymentParams{
		OrderID: &o.ID,
		PaidAt:  &paid,
		Amount:  &total,
		Method:  models.PaymentMethods[f.Number(0, len(models.PaymentMethods)-1)],
	})
	if err != nil {
		return fmt.Errorf("seeding payment: %w", err)
	}
	res.Payments++

	carrier := f.Company()
	tracking := strings.ToUpper(f.LetterN(3)) + fmt.Sprint(f.Number(100000, 999999))
	sh := models.ShipmentParams{
		OrderID:    &o.ID,
		Address:    f.Street(),
		City:       f.City(),
		Country:    f.Country(),
		Status:     shipmentStatus(status),
		Carrier:    &carrier,
		TrackingNo: &tracking,
	}
	if status == models.OrderShipped || status == models.OrderDelivered {
		shipped := paid.Add(24 * time.Hour)
		sh.ShippedAt = &shipped
	}
	if status == models.OrderDelivered {
		delivered := paid.Add(72 * time.Hour)
		sh.DeliveredAt = &delivered
	}
	if _, err := s.shop.CreateShipment(ctx, sh); err != nil {
		return fmt.Errorf("seeding shipment: %w", err)
	}
	res.Shipments++
	return nil
}

func shipmentStatus(status models.OrderStatus) string {
	switch status {
	case models.OrderShipped:
		return "EN_TRANSITO"
	case models.OrderDelivered:
		return "ENTREGADO"
	case models.OrderCancelled:
		return "CANCELADO"
	default:
		return models.ShipmentPreparing
	}
}

// emailPart lowercases name and drops everything but ASCII letters.
func emailPart(name string) string {
	return strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, name)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
