package address

import (
	"context"
	"strings"

	"storefront/internal/domain"
)

const defaultCountry = "India"

type Service struct {
	repo addressRepo
}

type addressRepo interface {
	List(ctx context.Context, userID string) ([]domain.Address, error)
	Create(ctx context.Context, userID string, a domain.Address) (*domain.Address, error)
}

func New(repo addressRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Address, error) {
	return s.repo.List(ctx, userID)
}

// Create saves a. The repository makes the first address the default.
func (s *Service) Create(ctx context.Context, userID string, a domain.Address) (*domain.Address, error) {
	a = normalize(a)
	if missing := a.Missing(); len(missing) > 0 {
		return nil, domain.Invalid("missing required fields: %s", strings.Join(missing, ", "))
	}
	a.ID = ""
	return s.repo.Create(ctx, userID, a)
}

func normalize(a domain.Address) domain.Address {
	a.FullName = strings.Join(strings.Fields(a.FullName), " ")
	a.AddressLine1 = strings.TrimSpace(a.AddressLine1)
	a.AddressLine2 = strings.TrimSpace(a.AddressLine2)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = defaultCountry
	}
	return a
}
