package neighborhood

import "context"

type Repository interface {
	List(ctx context.Context) ([]Neighborhood, error)
	GetByID(ctx context.Context, id uint) (*Neighborhood, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// InsertMissing inserts the rows whose name is not present yet and returns how many were added.
	InsertMissing(ctx context.Context, items []Neighborhood) (int64, error)
}
