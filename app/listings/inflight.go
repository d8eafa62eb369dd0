package listings

import "sync"

// inflight admits at most one running mutation per actor.
type inflight struct {
	mu     sync.Mutex
	actors map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{actors: make(map[string]struct{})}
}

// acquire marks actorID busy. It returns false when the actor already has a
// mutation running.
func (g *inflight) acquire(actorID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.actors[actorID]; busy {
		return false
	}
	g.actors[actorID] = struct{}{}
	return true
}

func (g *inflight) release(actorID string) {
	g.mu.Lock()
	delete(g.actors, actorID)
	g.mu.Unlock()
}
