package accel

import (
	"github.com/kallidan/restir-di-renderer/pkg/core"
)

// leafThreshold mirrors the teacher BVH's leaf size: nodes with this many
// or fewer triangles stop splitting.
const leafThreshold = 8

// blasNode is a node in a BLAS: either an internal split (Left/Right set,
// Triangles nil) or a leaf (Triangles set, Left/Right nil).
type blasNode struct {
	bounds    core.AABB
	left      *blasNode
	right     *blasNode
	triangles []int // indices into the owning Blas.triangles slice
}

// Blas is a bottom-level acceleration structure: a BVH over one mesh's
// local-space triangle soup. It never moves; placement is the TLAS's job.
type Blas struct {
	triangles []Triangle
	root      *blasNode
}

// sahBuckets is the number of binned buckets the split search evaluates
// along the chosen axis. 12 is the usual compromise between split quality
// and per-node build cost.
const sahBuckets = 12

// sahTraversalCost models the fixed cost of descending one more BVH node
// relative to testing one triangle, used to decide whether splitting a
// node is worth it at all.
const sahTraversalCost = 1.0

// NewBlas builds a BVH over triangles, splitting each node along its
// longest axis at the bucket boundary that minimizes the binned
// surface-area-heuristic cost: a split is only taken if its estimated
// cost (child probabilities weighted by surface area, plus traversal
// overhead) beats leaving the node as one leaf.
func NewBlas(triangles []Triangle) *Blas {
	b := &Blas{triangles: triangles}
	if len(triangles) == 0 {
		return b
	}
	indices := make([]int, len(triangles))
	for i := range indices {
		indices[i] = i
	}
	b.root = b.build(indices)
	return b
}

func (b *Blas) build(indices []int) *blasNode {
	bounds := b.triangles[indices[0]].BoundingBox()
	for _, i := range indices[1:] {
		bounds = bounds.Union(b.triangles[i].BoundingBox())
	}
	if !bounds.IsValid() {
		return &blasNode{bounds: bounds, triangles: indices}
	}
	// Pad leaf/internal bounds slightly so axis-aligned or near-planar
	// triangle sets never hand the slab test a zero-thickness box.
	bounds = bounds.Expand(1e-6)

	if len(indices) <= leafThreshold {
		return &blasNode{bounds: bounds, triangles: indices}
	}

	axis, splitPos, found := b.findSAHSplit(indices, bounds)
	if !found {
		return &blasNode{bounds: bounds, triangles: indices}
	}

	var left, right []int
	for _, i := range indices {
		if axisValue(b.triangles[i].BoundingBox().Center(), axis) < splitPos {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &blasNode{bounds: bounds, triangles: indices}
	}

	return &blasNode{bounds: bounds, left: b.build(left), right: b.build(right)}
}

// findSAHSplit bins indices' centroids into sahBuckets buckets along the
// node's longest axis, then walks the bucket boundaries evaluating the
// surface-area-heuristic cost of splitting there. It returns the best
// boundary found and whether splitting beats the no-split leaf cost.
func (b *Blas) findSAHSplit(indices []int, bounds core.AABB) (axis int, splitPos float64, found bool) {
	axis = bounds.LongestAxis()
	lo, hi := axisRange(bounds, axis)
	if hi-lo < 1e-12 {
		return axis, 0, false
	}

	type bucket struct {
		bounds core.AABB
		count  int
	}
	buckets := make([]bucket, sahBuckets)
	bucketOf := func(i int) int {
		box := b.triangles[i].BoundingBox()
		v := axisValue(box.Center(), axis)
		idx := int(float64(sahBuckets) * (v - lo) / (hi - lo))
		if idx < 0 {
			idx = 0
		}
		if idx >= sahBuckets {
			idx = sahBuckets - 1
		}
		return idx
	}
	for _, i := range indices {
		idx := bucketOf(i)
		box := b.triangles[i].BoundingBox()
		if buckets[idx].count == 0 {
			buckets[idx].bounds = box
		} else {
			buckets[idx].bounds = buckets[idx].bounds.Union(box)
		}
		buckets[idx].count++
	}

	leafCost := float64(len(indices))
	bestCost := leafCost
	bestBoundary := -1
	parentArea := bounds.SurfaceArea()
	for split := 1; split < sahBuckets; split++ {
		var leftBounds, rightBounds core.AABB
		var leftCount, rightCount int
		for i := 0; i < split; i++ {
			if buckets[i].count == 0 {
				continue
			}
			if leftCount == 0 {
				leftBounds = buckets[i].bounds
			} else {
				leftBounds = leftBounds.Union(buckets[i].bounds)
			}
			leftCount += buckets[i].count
		}
		for i := split; i < sahBuckets; i++ {
			if buckets[i].count == 0 {
				continue
			}
			if rightCount == 0 {
				rightBounds = buckets[i].bounds
			} else {
				rightBounds = rightBounds.Union(buckets[i].bounds)
			}
			rightCount += buckets[i].count
		}
		if leftCount == 0 || rightCount == 0 {
			continue
		}
		cost := sahTraversalCost + (leftBounds.SurfaceArea()*float64(leftCount)+rightBounds.SurfaceArea()*float64(rightCount))/parentArea
		if cost < bestCost {
			bestCost = cost
			bestBoundary = split
		}
	}
	if bestBoundary < 0 {
		return axis, 0, false
	}
	return axis, lo + (hi-lo)*float64(bestBoundary)/float64(sahBuckets), true
}

func axisValue(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func axisRange(bounds core.AABB, axis int) (lo, hi float64) {
	switch axis {
	case 0:
		return bounds.Min.X, bounds.Max.X
	case 1:
		return bounds.Min.Y, bounds.Max.Y
	default:
		return bounds.Min.Z, bounds.Max.Z
	}
}

// Bounds returns the BLAS's local-space bounding box, or a degenerate
// empty box if it holds no triangles.
func (b *Blas) Bounds() core.AABB {
	if b.root == nil {
		return core.AABB{}
	}
	return b.root.bounds
}

// traverse finds the closest local-space intersection along the ray
// segment [tMin, tMax]. steps counts every node visited, matching the
// traversal-step visualization mode.
func (b *Blas) traverse(origin, direction core.Vec3, tMin, tMax float64) (dist float64, normal core.Vec3, steps int, ok bool) {
	if b.root == nil {
		return 0, core.Vec3{}, 0, false
	}
	closest := tMax
	found := false
	b.traverseNode(b.root, origin, direction, tMin, &closest, &normal, &steps, &found)
	return closest, normal, steps, found
}

func (b *Blas) traverseNode(node *blasNode, origin, direction core.Vec3, tMin float64, closest *float64, normal *core.Vec3, steps *int, found *bool) {
	*steps++
	ray := core.NewRay(origin, direction)
	if !node.bounds.Hit(ray, tMin, *closest) {
		return
	}

	if node.triangles != nil {
		for _, idx := range node.triangles {
			tri := b.triangles[idx]
			if dist, ok := tri.hit(origin, direction, tMin, *closest); ok {
				*closest = dist
				*normal = tri.normal
				*found = true
			}
		}
		return
	}

	if node.left != nil {
		b.traverseNode(node.left, origin, direction, tMin, closest, normal, steps, found)
	}
	if node.right != nil {
		b.traverseNode(node.right, origin, direction, tMin, closest, normal, steps, found)
	}
}

// anyHit reports whether any triangle intersects the segment [tMin, tMax],
// stopping at the first hit found (occlusion queries don't need the
// closest one).
func (b *Blas) anyHit(origin, direction core.Vec3, tMin, tMax float64) bool {
	if b.root == nil {
		return false
	}
	return b.anyHitNode(b.root, origin, direction, tMin, tMax)
}

func (b *Blas) anyHitNode(node *blasNode, origin, direction core.Vec3, tMin, tMax float64) bool {
	ray := core.NewRay(origin, direction)
	if !node.bounds.Hit(ray, tMin, tMax) {
		return false
	}
	if node.triangles != nil {
		for _, idx := range node.triangles {
			if _, ok := b.triangles[idx].hit(origin, direction, tMin, tMax); ok {
				return true
			}
		}
		return false
	}
	if node.left != nil && b.anyHitNode(node.left, origin, direction, tMin, tMax) {
		return true
	}
	if node.right != nil && b.anyHitNode(node.right, origin, direction, tMin, tMax) {
		return true
	}
	return false
}
