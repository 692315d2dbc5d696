package events

import "context"

type correlationKey struct{}

// WithCorrelationID adjunta el id de la petición HTTP al contexto.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID devuelve el id adjuntado con WithCorrelationID, o "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
