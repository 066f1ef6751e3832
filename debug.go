package memewall

import (
	"fmt"
	"os"
	"time"
)

// debugLog prints per-frame draw stats to stderr.
func (s *Scene) debugLog(stats drawStats, elapsed time.Duration) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[memewall] draw: %v | nodes: %d | drawn: %d | tweens: %d\n",
		elapsed, stats.visited, stats.drawn, len(s.tweens))
}

// debugCheckDisposed panics when a disposed node is used in a tree
// operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("memewall debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckChildCount warns on stderr if a node has more children than a
// landing page should ever need; usually a sign of leaked sprites.
const debugMaxChildCount = 256

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[memewall] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}
