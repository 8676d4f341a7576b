package model

import (
	"fmt"
	"math"
	"strings"
)

// Position is a placement on the play field. With the default map size the
// field spans [0, 2] on both axes and 1.0 is its center.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snap moves each coordinate onto a grid of nx (resp. ny) evenly spaced
// points covering [0, 2]. A count below 2 leaves that axis untouched.
func (p Position) Snap(nx, ny int) Position {
	return Position{X: snapAxis(p.X, nx), Y: snapAxis(p.Y, ny)}
}

func snapAxis(v float64, points int) float64 {
	if points < 2 {
		return v
	}
	step := float64(points - 1)
	return math.RoundToEven(v/2*step) / step * 2
}

func (p Position) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

type Difficulty int8

// NOTE: Unspecified is deliberately not the zero value, the enum is stored
// shifted by one on disk so the sentinel becomes 0 there.
const (
	Unspecified Difficulty = iota - 1
	Easy
	Medium
	Hard
	Logic
	Tasukete
)

var difficultyNames = []string{"Unspecified", "Easy", "Medium", "Hard", "LOGIC?", "Tasukete"}

func (d Difficulty) Valid() bool {
	return d >= Unspecified && d <= Tasukete
}

func (d Difficulty) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Difficulty(%d)", int8(d))
	}
	return difficultyNames[int(d)+1]
}

func Difficulties() []Difficulty {
	res := make([]Difficulty, 0, len(difficultyNames))
	for d := Unspecified; d <= Tasukete; d++ {
		res = append(res, d)
	}
	return res
}

// ParseDifficulty accepts either a display name (case-insensitive, "logic"
// matches "LOGIC?") or the numeric value.
func ParseDifficulty(s string) (Difficulty, error) {
	needle := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "?")
	for i, name := range difficultyNames {
		if strings.TrimSuffix(strings.ToLower(name), "?") == needle {
			return Difficulty(i - 1), nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil {
		d := Difficulty(n)
		if d.Valid() {
			return d, nil
		}
	}
	return Unspecified, fmt.Errorf("unknown difficulty %q", s)
}
