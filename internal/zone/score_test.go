package zone

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		c        Counters
		expected int
	}{
		{Counters{}, 0},
		{Counters{Area1: 1}, 1},
		{Counters{Area2: 1}, 2},
		{Counters{Area3: 1}, 3},
		{Counters{Area4: 1}, 4},
		{Counters{Area1: 2, Area2: 3, Area3: 1, Area4: 5}, 2 + 6 + 3 + 20},
	}

	for _, tt := range tests {
		if got := tt.c.Score(); got != tt.expected {
			t.Errorf("%+v.Score() = %d, expected %d", tt.c, got, tt.expected)
		}
	}

	for c1 := 0; c1 < 4; c1++ {
		for c2 := 0; c2 < 4; c2++ {
			for c3 := 0; c3 < 4; c3++ {
				for c4 := 0; c4 < 4; c4++ {
					if got := Score(c1, c2, c3, c4); got != c1+2*c2+3*c3+4*c4 {
						t.Fatalf("Score(%d,%d,%d,%d) = %d", c1, c2, c3, c4, got)
					}
				}
			}
		}
	}
}

func TestCounters_AddReset(t *testing.T) {
	var c Counters
	c.Add(Area1)
	c.Add(Area4)
	c.Add(Area4)
	c.Add(AreaNone)

	if c.Total() != 3 {
		t.Errorf("Expected 3 counted detections, got %d", c.Total())
	}
	if c.Text() != "Score: 9" {
		t.Errorf("Unexpected text %q", c.Text())
	}

	m := c.Map()
	if m["Area 1"] != 1 || m["Area 4"] != 2 || m["Area 2"] != 0 || len(m) != 4 {
		t.Errorf("Unexpected map %v", m)
	}

	c.Reset()
	if c != (Counters{}) {
		t.Errorf("Expected zeroed counters, got %+v", c)
	}
}
