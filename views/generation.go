package views

import "sync/atomic"

// Generation descarta respostas atrasadas: só o ticket mais recente vale.
type Generation struct {
	n atomic.Uint64
}

// Begin abre uma nova geração e invalida as anteriores.
func (g *Generation) Begin() uint64 {
	return g.n.Add(1)
}

func (g *Generation) IsLatest(ticket uint64) bool {
	return g.n.Load() == ticket
}
