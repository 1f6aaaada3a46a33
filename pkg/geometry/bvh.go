package geometry

import (
	"errors"
	"math"

	"github.com/df07/go-pathcore/pkg/core"
	"golang.org/x/xerrors"
)

// BVHStackSize is the capacity of the traversal stack. Depth-first traversal
// that pushes both children needs at most depth+1 slots, so hierarchies are
// limited to a depth of BVHStackSize-1.
const BVHStackSize = 128

// MaxBVHDepth is the deepest node level traversal can reach without dropping work.
const MaxBVHDepth = BVHStackSize - 1

var (
	// ErrBVHTooDeep is returned when a hierarchy could overflow the traversal stack.
	ErrBVHTooDeep = errors.New("bvh deeper than traversal stack")

	// ErrInvalidBVH is returned for malformed node tables.
	ErrInvalidBVH = errors.New("invalid bvh")
)

// BVHNode is one entry of a flattened hierarchy. Child indices and the
// primitive offset are relative to the owning instance's node and triangle
// ranges. A node is a leaf iff PrimCount > 0.
type BVHNode struct {
	Bounds core.AABB

	// Child node indices, -1 if absent.
	Left, Right int32

	// Leaf primitive range.
	FirstPrim, PrimCount int32
}

// IsLeaf reports whether the node stores triangles.
func (n *BVHNode) IsLeaf() bool {
	return n.PrimCount > 0
}

// IntersectBVH finds the nearest triangle of a mesh instance using its BVH.
// It reports exactly the hit IntersectMesh would. Children are visited in
// arbitrary order; the closest t is tracked across the whole traversal.
func IntersectBVH(g *Geom, ray core.Ray, triangles []Triangle, nodes []BVHNode) (float64, HitRecord) {
	if g.BVHCount == 0 {
		return NoHit, HitRecord{}
	}

	q := g.Transform.ToLocal(ray)
	meshNodes := nodes[g.BVHStart : g.BVHStart+g.BVHCount]
	meshTris := triangles[g.TriStart:g.TriEnd]

	var stack [BVHStackSize]int32
	top := 0
	stack[0] = 0

	best := triangleCandidate{index: -1, t: math.Inf(1)}
	for top >= 0 {
		node := &meshNodes[stack[top]]
		top--

		if !node.Bounds.HasIntersection(q) {
			continue
		}

		if node.IsLeaf() {
			end := node.FirstPrim + node.PrimCount
			for i := node.FirstPrim; i < end; i++ {
				best.consider(int(i), &meshTris[i], q)
			}
			continue
		}

		// Pushes beyond capacity are dropped; ValidateBVH rejects such trees at build time
		if node.Left >= 0 && top+1 < BVHStackSize {
			top++
			stack[top] = node.Left
		}
		if node.Right >= 0 && top+1 < BVHStackSize {
			top++
			stack[top] = node.Right
		}
	}

	if best.index < 0 {
		return NoHit, HitRecord{}
	}
	return finishTriangleHit(g, ray, q, &meshTris[best.index], best)
}

// BVHStats summarises the shape of a hierarchy.
type BVHStats struct {
	Nodes      int
	Leaves     int
	MaxDepth   int
	Primitives int
}

// ValidateBVH checks a node table against the invariants traversal relies on:
// child indices in range, leaf ranges inside the triangle range, no node
// reachable twice and a depth the traversal stack can hold.
func ValidateBVH(nodes []BVHNode, triCount int) (BVHStats, error) {
	var stats BVHStats
	if len(nodes) == 0 {
		return stats, nil
	}

	type entry struct {
		index int32
		depth int
	}

	visited := make([]bool, len(nodes))
	work := []entry{{index: 0, depth: 0}}
	for len(work) > 0 {
		e := work[len(work)-1]
		work = work[:len(work)-1]

		if visited[e.index] {
			return stats, xerrors.Errorf("node %d reachable twice: %w", e.index, ErrInvalidBVH)
		}
		visited[e.index] = true

		if e.depth > MaxBVHDepth {
			return stats, xerrors.Errorf("node %d at depth %d exceeds limit %d: %w", e.index, e.depth, MaxBVHDepth, ErrBVHTooDeep)
		}

		stats.Nodes++
		stats.MaxDepth = max(stats.MaxDepth, e.depth)

		node := &nodes[e.index]
		if node.IsLeaf() {
			if node.Left != -1 || node.Right != -1 {
				return stats, xerrors.Errorf("leaf node %d has children: %w", e.index, ErrInvalidBVH)
			}
			if node.FirstPrim < 0 || int(node.FirstPrim)+int(node.PrimCount) > triCount {
				return stats, xerrors.Errorf("leaf node %d range [%d,%d) outside %d triangles: %w",
					e.index, node.FirstPrim, node.FirstPrim+node.PrimCount, triCount, ErrInvalidBVH)
			}
			stats.Leaves++
			stats.Primitives += int(node.PrimCount)
			continue
		}
		if node.PrimCount < 0 {
			return stats, xerrors.Errorf("node %d has negative primitive count: %w", e.index, ErrInvalidBVH)
		}

		for _, child := range [2]int32{node.Left, node.Right} {
			if child == -1 {
				continue
			}
			if child < 0 || int(child) >= len(nodes) {
				return stats, xerrors.Errorf("node %d child %d out of range: %w", e.index, child, ErrInvalidBVH)
			}
			work = append(work, entry{index: child, depth: e.depth + 1})
		}
	}

	return stats, nil
}
