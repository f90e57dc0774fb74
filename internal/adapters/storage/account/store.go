package account

import (
	"context"

	domain "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/account"
)

// Store persists Account state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, a domain.Account) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]domain.Account, error)
}
