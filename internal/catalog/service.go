package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"

	"posterminal/internal/domain"
)

type catalogAPI interface {
	FetchProducts(ctx context.Context, sess *domain.Session) ([]domain.Product, error)
	FetchCategories(ctx context.Context, sess *domain.Session) ([]domain.Category, error)
}

// Service loads catalog snapshots from the upstream API. It never
// retries on its own; a failed load is re-invoked by the operator.
type Service struct {
	api    catalogAPI
	logger *log.Logger
}

func New(api catalogAPI, logger *log.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// Load fetches the full product and category sets and builds a
// snapshot. Authentication errors pass through untouched so the caller
// can direct the operator to login; everything else is classified as a
// catalog load failure.
func (s *Service) Load(ctx context.Context, sess *domain.Session) (*Snapshot, error) {
	products, err := s.api.FetchProducts(ctx, sess)
	if err != nil {
		return nil, s.classify("fetch products", err)
	}
	categories, err := s.api.FetchCategories(ctx, sess)
	if err != nil {
		return nil, s.classify("fetch categories", err)
	}
	s.logger.Printf("catalog loaded: %d products, %d categories", len(products), len(categories))
	return NewSnapshot(products, categories), nil
}

func (s *Service) classify(op string, err error) error {
	if errors.Is(err, domain.ErrAuthMissing) || errors.Is(err, domain.ErrAuthFailed) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrCatalogLoad, op, err)
}
