package analytics

import (
	"context"
	"time"
)

// wait segura a resposta por d, simulando a latência da rede.
// Devolve false se o contexto for cancelado antes.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
