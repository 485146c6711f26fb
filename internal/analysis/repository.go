package analysis

import "context"

// Repository persists analysis results. The engine never touches the
// connection pool directly.
type Repository interface {
	Save(ctx context.Context, res *Result) error
	GetByID(ctx context.Context, id string) (*Result, error)
	List(ctx context.Context, limit, offset int) ([]*Result, error)
}
