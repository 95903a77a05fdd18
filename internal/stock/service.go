package stock

import (
	"context"
	"log"

	"posterminal/internal/domain"
	"posterminal/internal/upstream"
)

type stockAPI interface {
	AddStock(ctx context.Context, sess *domain.Session, variantID int64, amount int) error
	ReduceStock(ctx context.Context, sess *domain.Session, variantID int64, amount int) error
	VariantTransactions(ctx context.Context, sess *domain.Session, variantID int64) ([]upstream.Transaction, error)
}

// Service exposes the upstream stock-adjustment and transaction-history
// operations to the terminal's presentation layer.
type Service struct {
	api    stockAPI
	logger *log.Logger
}

func New(api stockAPI, logger *log.Logger) *Service {
	return &Service{api: api, logger: logger}
}

func (s *Service) Add(ctx context.Context, sess *domain.Session, variantID int64, amount int) error {
	if err := s.api.AddStock(ctx, sess, variantID, amount); err != nil {
		return err
	}
	s.logger.Printf("stock added: variant %d +%d", variantID, amount)
	return nil
}

func (s *Service) Reduce(ctx context.Context, sess *domain.Session, variantID int64, amount int) error {
	if err := s.api.ReduceStock(ctx, sess, variantID, amount); err != nil {
		return err
	}
	s.logger.Printf("stock reduced: variant %d -%d", variantID, amount)
	return nil
}

func (s *Service) Transactions(ctx context.Context, sess *domain.Session, variantID int64) ([]upstream.Transaction, error) {
	return s.api.VariantTransactions(ctx, sess, variantID)
}
