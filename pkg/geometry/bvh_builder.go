package geometry

import (
	"math"
	"sort"
	"time"

	"github.com/df07/go-pathcore/pkg/core"
	"github.com/df07/go-pathcore/pkg/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

const (
	// Number of centroid bins evaluated per axis by the SAH.
	sahBins = 12

	// Nodes with fewer items score their axes sequentially; spawning
	// goroutines costs more than the scoring itself.
	parallelScoreThreshold = 4096
)

// BVHOptions configures BuildBVH.
type BVHOptions struct {
	// Leaves are always created at or below this many triangles when no
	// split improves on the leaf cost.
	MinLeafSize int

	// Nodes above this many triangles are always split, falling back to a
	// median cut when no SAH split exists.
	MaxLeafSize int

	// Deepest level the builder may create. Must not exceed MaxBVHDepth.
	MaxDepth int
}

// DefaultBVHOptions returns the options used by the scene builder.
func DefaultBVHOptions() BVHOptions {
	return BVHOptions{
		MinLeafSize: 2,
		MaxLeafSize: 8,
		MaxDepth:    MaxBVHDepth,
	}
}

type primInfo struct {
	index    int
	bounds   core.AABB
	centroid core.Vec3
}

type splitCandidate struct {
	axis  int
	bin   int // first bin on the right side
	lo    float64
	scale float64 // bins per unit of centroid extent
	cost  float64
	valid bool
}

// binOf maps a centroid coordinate to its SAH bin
func (c splitCandidate) binOf(v float64) int {
	k := int(c.scale * (v - c.lo))
	return min(max(k, 0), sahBins-1)
}

type bvhBuilder struct {
	logger log.Logger
	opts   BVHOptions

	triangles []Triangle
	nodes     []BVHNode
	ordered   []Triangle

	stats BVHStats
}

// BuildBVH builds a flattened hierarchy over an object-space triangle list
// using the surface area heuristic. It returns the node table (root at 0)
// and the triangles reordered so each leaf covers a contiguous range.
// Depth is capped at opts.MaxDepth by turning deeper nodes into leaves.
func BuildBVH(triangles []Triangle, opts BVHOptions) ([]BVHNode, []Triangle, error) {
	if opts.MaxDepth > MaxBVHDepth {
		return nil, nil, xerrors.Errorf("max depth %d exceeds traversal limit %d: %w", opts.MaxDepth, MaxBVHDepth, ErrBVHTooDeep)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = MaxBVHDepth
	}
	if opts.MinLeafSize <= 0 {
		opts.MinLeafSize = 1
	}
	if opts.MaxLeafSize < opts.MinLeafSize {
		opts.MaxLeafSize = opts.MinLeafSize
	}

	if len(triangles) == 0 {
		return nil, nil, nil
	}

	b := &bvhBuilder{
		logger:    log.New("bvh"),
		opts:      opts,
		triangles: triangles,
		nodes:     make([]BVHNode, 0, 2*len(triangles)/opts.MinLeafSize+1),
		ordered:   make([]Triangle, 0, len(triangles)),
	}

	items := make([]primInfo, len(triangles))
	for i := range triangles {
		items[i] = primInfo{
			index:    i,
			bounds:   triangles[i].BoundingBox(),
			centroid: triangles[i].Centroid(),
		}
	}

	start := time.Now()
	b.partition(items, 0)
	b.logger.Debugf(
		"BVH build time: %d ms, triangles: %d, nodes: %d, leaves: %d, max depth: %d",
		time.Since(start).Milliseconds(), len(triangles), b.stats.Nodes, b.stats.Leaves, b.stats.MaxDepth,
	)

	return b.nodes, b.ordered, nil
}

// partition builds the subtree for items and returns its node index.
func (b *bvhBuilder) partition(items []primInfo, depth int) int32 {
	b.stats.MaxDepth = max(b.stats.MaxDepth, depth)

	bounds := core.EmptyAABB()
	centroidBounds := core.EmptyAABB()
	for _, item := range items {
		bounds = bounds.Union(item.bounds)
		centroidBounds = centroidBounds.Union(core.NewAABB(item.centroid, item.centroid))
	}

	if len(items) <= b.opts.MinLeafSize || depth >= b.opts.MaxDepth {
		if depth >= b.opts.MaxDepth && len(items) > b.opts.MaxLeafSize {
			b.logger.Warningf("BVH depth limit %d reached with %d triangles in one leaf", b.opts.MaxDepth, len(items))
		}
		return b.createLeaf(bounds, items)
	}

	leafCost := float64(len(items)) * bounds.SurfaceArea()
	split := b.findSplit(items, centroidBounds)

	var left, right []primInfo
	switch {
	case split.valid && (split.cost < leafCost || len(items) > b.opts.MaxLeafSize):
		left, right = partitionItems(items, split)
	case len(items) > b.opts.MaxLeafSize:
		left, right = medianSplit(items, centroidBounds.LongestAxis())
	}
	if len(left) == 0 || len(right) == 0 {
		return b.createLeaf(bounds, items)
	}

	nodeIndex := int32(len(b.nodes))
	b.nodes = append(b.nodes, BVHNode{Bounds: bounds, Left: -1, Right: -1})
	b.stats.Nodes++

	leftIndex := b.partition(left, depth+1)
	rightIndex := b.partition(right, depth+1)
	b.nodes[nodeIndex].Left = leftIndex
	b.nodes[nodeIndex].Right = rightIndex

	return nodeIndex
}

func (b *bvhBuilder) createLeaf(bounds core.AABB, items []primInfo) int32 {
	first := int32(len(b.ordered))
	for _, item := range items {
		b.ordered = append(b.ordered, b.triangles[item.index])
	}

	nodeIndex := int32(len(b.nodes))
	b.nodes = append(b.nodes, BVHNode{
		Bounds:    bounds,
		Left:      -1,
		Right:     -1,
		FirstPrim: first,
		PrimCount: int32(len(items)),
	})

	b.stats.Nodes++
	b.stats.Leaves++
	b.stats.Primitives += len(items)
	return nodeIndex
}

// findSplit scores binned split planes on every axis and returns the cheapest.
func (b *bvhBuilder) findSplit(items []primInfo, centroidBounds core.AABB) splitCandidate {
	var candidates [3]splitCandidate

	if len(items) < parallelScoreThreshold {
		for axis := 0; axis < 3; axis++ {
			candidates[axis] = scoreAxis(items, centroidBounds, axis)
		}
	} else {
		var eg errgroup.Group
		for axis := 0; axis < 3; axis++ {
			eg.Go(func() error {
				candidates[axis] = scoreAxis(items, centroidBounds, axis)
				return nil
			})
		}
		_ = eg.Wait()
	}

	best := splitCandidate{cost: math.Inf(1)}
	for _, c := range candidates {
		if c.valid && c.cost < best.cost {
			best = c
		}
	}
	return best
}

// scoreAxis evaluates the SAH cost
//
//	leftCount * leftArea + rightCount * rightArea
//
// for every boundary between centroid bins along one axis.
func scoreAxis(items []primInfo, centroidBounds core.AABB, axis int) splitCandidate {
	lo := centroidBounds.Min.Axis(axis)
	hi := centroidBounds.Max.Axis(axis)
	extent := hi - lo
	if extent <= 0 {
		return splitCandidate{}
	}

	type bin struct {
		count  int
		bounds core.AABB
	}
	var bins [sahBins]bin
	for i := range bins {
		bins[i].bounds = core.EmptyAABB()
	}

	best := splitCandidate{axis: axis, lo: lo, scale: float64(sahBins) / extent, cost: math.Inf(1)}
	for _, item := range items {
		k := best.binOf(item.centroid.Axis(axis))
		bins[k].count++
		bins[k].bounds = bins[k].bounds.Union(item.bounds)
	}

	// Sweep from the right to get suffix areas, then from the left
	var rightCount [sahBins]int
	var rightArea [sahBins]float64
	acc := core.EmptyAABB()
	count := 0
	for i := sahBins - 1; i > 0; i-- {
		acc = acc.Union(bins[i].bounds)
		count += bins[i].count
		rightCount[i] = count
		rightArea[i] = acc.SurfaceArea()
	}

	acc = core.EmptyAABB()
	count = 0
	for i := 0; i < sahBins-1; i++ {
		acc = acc.Union(bins[i].bounds)
		count += bins[i].count
		if count == 0 || rightCount[i+1] == 0 {
			continue
		}
		cost := float64(count)*acc.SurfaceArea() + float64(rightCount[i+1])*rightArea[i+1]
		if cost < best.cost {
			best.cost = cost
			best.bin = i + 1
			best.valid = true
		}
	}
	return best
}

// partitionItems splits items by which bin their centroid falls in. Using the
// same bin arithmetic as scoreAxis keeps both sides non-empty.
func partitionItems(items []primInfo, split splitCandidate) ([]primInfo, []primInfo) {
	var left, right []primInfo
	for _, item := range items {
		if split.binOf(item.centroid.Axis(split.axis)) < split.bin {
			left = append(left, item)
		} else {
			right = append(right, item)
		}
	}
	return left, right
}

// medianSplit sorts items along axis and cuts them in half
func medianSplit(items []primInfo, axis int) ([]primInfo, []primInfo) {
	sorted := make([]primInfo, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].centroid.Axis(axis) < sorted[j].centroid.Axis(axis)
	})
	mid := len(sorted) / 2
	return sorted[:mid], sorted[mid:]
}
