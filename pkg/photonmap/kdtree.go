package photonmap

import (
	"container/heap"
	"math"

	"github.com/df07/go-photon-renderer/pkg/core"
)

// KDTree is a balanced 3-d tree over photon positions. The photons are laid
// out implicitly: the node of range [lo, hi) is the median at (lo+hi)/2,
// with its left subtree in [lo, mid) and its right subtree in (mid, hi).
// A tree never changes after NewKDTree returns, so any number of goroutines
// may query it concurrently.
type KDTree struct {
	photons []Photon
	axes    []uint8 // Split axis of every node position
}

// NewKDTree builds a tree over a copy of photons. At every level the range is
// split at its median along the axis of largest spread.
func NewKDTree(photons []Photon) *KDTree {
	t := &KDTree{
		photons: append([]Photon(nil), photons...),
		axes:    make([]uint8, len(photons)),
	}

	type span struct{ lo, hi int }
	stack := []span{{0, len(t.photons)}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.hi-s.lo <= 0 {
			continue
		}

		bounds := core.EmptyAABB()
		for i := s.lo; i < s.hi; i++ {
			bounds = bounds.Extend(t.photons[i].Position)
		}
		axis := bounds.LongestAxis()
		mid := (s.lo + s.hi) / 2

		selectNth(t.photons[s.lo:s.hi], mid-s.lo, axis)
		t.axes[mid] = uint8(axis)

		stack = append(stack, span{s.lo, mid}, span{mid + 1, s.hi})
	}

	return t
}

// selectNth reorders photons so the element at n is the one that would be
// there if sorted along axis, with nothing greater before it and nothing
// smaller after it (Hoare quickselect with median-of-three pivots).
func selectNth(photons []Photon, n, axis int) {
	key := func(i int) float64 { return photons[i].Position.Axis(axis) }

	lo, hi := 0, len(photons)-1
	for lo < hi {
		mid := lo + (hi-lo)/2
		if key(mid) < key(lo) {
			photons[mid], photons[lo] = photons[lo], photons[mid]
		}
		if key(hi) < key(lo) {
			photons[hi], photons[lo] = photons[lo], photons[hi]
		}
		if key(hi) < key(mid) {
			photons[hi], photons[mid] = photons[mid], photons[hi]
		}
		pivot := key(mid)

		i, j := lo, hi
		for i <= j {
			for key(i) < pivot {
				i++
			}
			for key(j) > pivot {
				j--
			}
			if i <= j {
				photons[i], photons[j] = photons[j], photons[i]
				i++
				j--
			}
		}

		switch {
		case n <= j:
			hi = j
		case n >= i:
			lo = i
		default:
			return
		}
	}
}

// Len returns the number of photons in the tree
func (t *KDTree) Len() int {
	return len(t.photons)
}

// Photons returns the stored photons in tree order. The slice must not be modified.
func (t *KDTree) Photons() []Photon {
	return t.photons
}

// Neighbor is a photon found by a nearest-neighbor query
type Neighbor struct {
	Photon          *Photon
	DistanceSquared float64
}

// neighborHeap is a max-heap on distance, so the worst candidate is on top
type neighborHeap []Neighbor

func (h neighborHeap) Len() int            { return len(h) }
func (h neighborHeap) Less(i, j int) bool  { return h[i].DistanceSquared > h[j].DistanceSquared }
func (h neighborHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x interface{}) { *h = append(*h, x.(Neighbor)) }
func (h *neighborHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Nearest returns up to k photons within radius of point, in no particular order
func (t *KDTree) Nearest(point core.Vec3, k int, radius float64) []Neighbor {
	if k <= 0 || radius <= 0 || len(t.photons) == 0 {
		return nil
	}

	best := make(neighborHeap, 0, min(k, 64))
	radiusSquared := radius * radius

	// bound is the squared distance a candidate has to beat
	bound := func() float64 {
		if len(best) == k {
			return math.Min(radiusSquared, best[0].DistanceSquared)
		}
		return radiusSquared
	}

	// Pending ranges carry a lower bound on the distance to anything inside them
	type pending struct {
		lo, hi     int
		minDistSqr float64
	}
	stack := make([]pending, 0, 64)
	stack = append(stack, pending{0, len(t.photons), 0})

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.hi <= p.lo || p.minDistSqr > bound() {
			continue
		}

		mid := (p.lo + p.hi) / 2
		photon := &t.photons[mid]

		if d := photon.Position.Subtract(point).LengthSquared(); d <= bound() {
			if len(best) == k {
				heap.Pop(&best)
			}
			heap.Push(&best, Neighbor{Photon: photon, DistanceSquared: d})
		}

		axis := int(t.axes[mid])
		diff := point.Axis(axis) - photon.Position.Axis(axis)
		planeDistSqr := math.Max(p.minDistSqr, diff*diff)

		near, far := pending{p.lo, mid, p.minDistSqr}, pending{mid + 1, p.hi, planeDistSqr}
		if diff > 0 {
			near.lo, near.hi, far.lo, far.hi = mid+1, p.hi, p.lo, mid
		}

		// Far side goes on the stack first so the near side is explored first
		stack = append(stack, far, near)
	}

	return best
}
