// Package ctxutil provides context helpers shared by the commands.
package ctxutil

import "context"

// Canceled returns ctx's error once it is done, nil before. Long draws
// call it between steps.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
