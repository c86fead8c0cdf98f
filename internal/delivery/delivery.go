// Package delivery defines the entry points that expose the account service.
package delivery

import "context"

// Delivery is a long-running server started once the fx graph is built.
type Delivery interface {
	Serve(ctx context.Context) error
}
