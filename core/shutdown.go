package core

import "context"

// ShutdownFunc releases one resource during graceful shutdown. It should
// return once ctx is done even if the resource has not finished closing.
type ShutdownFunc func(ctx context.Context) error
