package category

import "context"

// Category represents a registered donation category.
// Categories are advisory: a donation may carry free-text categories that
// were never registered here.
type Category struct {
	ID   int64
	Name string
}

// Defaults is the seed set, in alphabetical order. Category listings fall
// back to this set when the table is empty or unreadable.
var Defaults = []string{"Emergency", "General", "Other", "Project"}

// Repository defines the operations for the registered category set.
type Repository interface {
	// ListNames returns the registered category names in alphabetical order.
	ListNames(ctx context.Context) ([]string, error)
	Add(ctx context.Context, name string) error
}
