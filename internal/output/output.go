package output

import (
	"context"

	"github.com/crimson-sun/exhibit/internal/model"
)

// Output defines the interface for classification report destinations.
type Output interface {
	Write(ctx context.Context, c model.Classification) error
	Close() error
}
