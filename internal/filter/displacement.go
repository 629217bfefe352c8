package filter

import "math"

// Displace sets each pad's displacement to the arc length travelled for a
// rotation of angleDeg degrees. The sign is inverted: a positive rotation
// moves every pad towards negative x.
func Displace(s State, angleDeg float64) State {
	next := s.Clone()
	theta := angleDeg * math.Pi / 180
	for i := range next.pads {
		next.pads[i].Displacement = -(next.pads[i].Radius * theta)
	}
	return next
}
