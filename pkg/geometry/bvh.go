package geometry

import "github.com/df07/go-photon-renderer/pkg/core"

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Indices     []int // Shape indices for leaf nodes (nil for internal nodes)
}

// BVH accelerates nearest-hit queries over an indexed set of shapes.
// Hits report the index of the shape in the slice passed to NewBVH, so the
// caller can map the hit back to whatever it stored alongside the shape.
type BVH struct {
	Root   *BVHNode
	shapes []Shape
}

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 4

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	bvh := &BVH{shapes: append([]Shape(nil), shapes...)}
	if len(shapes) == 0 {
		return bvh
	}

	indices := make([]int, len(shapes))
	for i := range indices {
		indices[i] = i
	}
	bvh.Root = bvh.build(indices)
	return bvh
}

// build recursively splits at the midpoint of the longest axis
func (bvh *BVH) build(indices []int) *BVHNode {
	box := core.EmptyAABB()
	centers := core.EmptyAABB()
	for _, idx := range indices {
		b := bvh.shapes[idx].BoundingBox()
		box = box.Union(b)
		centers = centers.Extend(b.Center())
	}

	if len(indices) <= leafThreshold {
		return &BVHNode{BoundingBox: box, Indices: indices}
	}

	axis := centers.LongestAxis()
	lo, hi := centers.Min.Axis(axis), centers.Max.Axis(axis)
	if hi <= lo {
		return &BVHNode{BoundingBox: box, Indices: indices}
	}
	split := (lo + hi) * 0.5

	// Partition in place around the split
	mid := 0
	for i := range indices {
		if bvh.shapes[indices[i]].BoundingBox().Center().Axis(axis) < split {
			indices[i], indices[mid] = indices[mid], indices[i]
			mid++
		}
	}
	if mid == 0 || mid == len(indices) {
		return &BVHNode{BoundingBox: box, Indices: indices}
	}

	return &BVHNode{
		BoundingBox: box,
		Left:        bvh.build(indices[:mid]),
		Right:       bvh.build(indices[mid:]),
	}
}

// Hit finds the closest intersection and the index of the shape that produced it
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, int, bool) {
	if bvh.Root == nil {
		return nil, -1, false
	}
	hit, index := bvh.hitNode(bvh.Root, ray, tMin, tMax)
	return hit, index, hit != nil
}

func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (*HitRecord, int) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, -1
	}

	var closest *HitRecord
	closestIndex := -1
	closestSoFar := tMax

	if node.Indices != nil {
		for _, idx := range node.Indices {
			if hit, ok := bvh.shapes[idx].Hit(ray, tMin, closestSoFar); ok {
				closest, closestIndex, closestSoFar = hit, idx, hit.T
			}
		}
		return closest, closestIndex
	}

	for _, child := range [2]*BVHNode{node.Left, node.Right} {
		if child == nil {
			continue
		}
		if hit, idx := bvh.hitNode(child, ray, tMin, closestSoFar); hit != nil {
			closest, closestIndex, closestSoFar = hit, idx, hit.T
		}
	}
	return closest, closestIndex
}

// BoundingBox returns the overall bounding box of the BVH
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.BoundingBox
}

// Occluded reports whether any shape is hit in (tMin, tMax). It stops at the first hit.
func (bvh *BVH) Occluded(ray core.Ray, tMin, tMax float64) bool {
	if bvh.Root == nil {
		return false
	}
	stack := []*BVHNode{bvh.Root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !node.BoundingBox.Hit(ray, tMin, tMax) {
			continue
		}
		if node.Indices != nil {
			for _, idx := range node.Indices {
				if _, ok := bvh.shapes[idx].Hit(ray, tMin, tMax); ok {
					return true
				}
			}
			continue
		}
		if node.Left != nil {
			stack = append(stack, node.Left)
		}
		if node.Right != nil {
			stack = append(stack, node.Right)
		}
	}
	return false
}
