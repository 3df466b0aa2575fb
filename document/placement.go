package document

import "notemap/geometry"

const (
	placementMargin   = 10
	placementAttempts = 50
)

// FindNonOverlappingPosition looks for a spot near (x, y) where a box of the
// estimated size does not collide with any node. On a collision the
// candidate moves straight down below the colliding node and the search
// restarts. After a bounded number of attempts the last candidate is
// returned even if it still overlaps.
func (d *Document) FindNonOverlappingPosition(x, y, estWidth, estHeight float64) geometry.Point {
	pos := geometry.Pt(x, y)
	for attempt := 0; attempt < placementAttempts; attempt++ {
		overlap := false
		for _, n := range d.nodes {
			r := n.CollisionRect()
			if pos.X < r.Right+placementMargin &&
				pos.X+estWidth+placementMargin > r.Left &&
				pos.Y < r.Bottom+placementMargin &&
				pos.Y+estHeight+placementMargin > r.Top {
				overlap = true
				pos.Y = r.Bottom + placementMargin + 10
				break
			}
		}
		if !overlap {
			return pos
		}
	}
	return pos
}
