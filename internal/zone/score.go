package zone

import "fmt"

// Counters holds the number of detections per area for the current batch.
type Counters struct {
	Area1 int
	Area2 int
	Area3 int
	Area4 int
}

// Add increments the counter for a. AreaNone is ignored.
func (c *Counters) Add(a Area) {
	switch a {
	case Area1:
		c.Area1++
	case Area2:
		c.Area2++
	case Area3:
		c.Area3++
	case Area4:
		c.Area4++
	}
}

// Get returns the counter for a.
func (c Counters) Get(a Area) int {
	switch a {
	case Area1:
		return c.Area1
	case Area2:
		return c.Area2
	case Area3:
		return c.Area3
	case Area4:
		return c.Area4
	}
	return 0
}

// Reset zeroes all counters.
func (c *Counters) Reset() {
	*c = Counters{}
}

// Total is the number of detections that landed in a scoring area.
func (c Counters) Total() int {
	return c.Area1 + c.Area2 + c.Area3 + c.Area4
}

// Score returns the weighted sum of the counters.
func (c Counters) Score() int {
	return Score(c.Area1, c.Area2, c.Area3, c.Area4)
}

// Text returns the score as drawn on the canvas.
func (c Counters) Text() string {
	return fmt.Sprintf("Score: %d", c.Score())
}

// Map returns the counters keyed by area name.
func (c Counters) Map() map[string]int {
	m := make(map[string]int, len(Areas))
	for _, a := range Areas {
		m[a.String()] = c.Get(a)
	}
	return m
}

// Score computes c1 + 2*c2 + 3*c3 + 4*c4.
func Score(c1, c2, c3, c4 int) int {
	return c1*Area1.Weight() + c2*Area2.Weight() + c3*Area3.Weight() + c4*Area4.Weight()
}
