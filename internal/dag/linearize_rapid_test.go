package dag

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// For any acyclic graph, Linearize terminates with a permutation of the
// nodes in which every node appears after all of its dependencies, and
// repeated calls return the identical order.
func TestLinearize_RespectsDependencies_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "nodes")
		g := New()
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("module-%d", i)
			g.AddNode(names[i])
		}

		// Edges only run from a lower insertion index to a higher one, so
		// the generated graph is acyclic by construction.
		deps := make(map[string][]string)
		for j := 1; j < n; j++ {
			count := rapid.IntRange(0, j).Draw(t, fmt.Sprintf("degree-%d", j))
			picked := rapid.SliceOfNDistinct(
				rapid.IntRange(0, j-1), count, count, func(i int) int { return i },
			).Draw(t, fmt.Sprintf("deps-%d", j))
			for _, i := range picked {
				require.NoError(t, g.AddEdge(names[i], names[j]))
				deps[names[j]] = append(deps[names[j]], names[i])
			}
		}

		order, err := g.Linearize()
		require.NoError(t, err)
		require.Len(t, order, n)

		pos := make(map[string]int, n)
		for i, id := range order {
			_, dup := pos[id]
			require.False(t, dup, "node %s appears twice", id)
			pos[id] = i
		}
		for dependent, ds := range deps {
			for _, dep := range ds {
				require.Less(t, pos[dep], pos[dependent],
					"%s must run before its dependent %s", dep, dependent)
			}
		}

		again, err := g.Linearize()
		require.NoError(t, err)
		require.Equal(t, order, again)
	})
}
