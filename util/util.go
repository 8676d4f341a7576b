package util

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func GetSortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func Min[A constraints.Integer | constraints.Float](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Integer | constraints.Float](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Clamp[A constraints.Integer | constraints.Float](v, lo, hi A) A {
	return Max(lo, Min(v, hi))
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}

// NextPowerOfTwo rounds n up to a power of two, n <= 1 gives 1.
func NextPowerOfTwo[A constraints.Integer](n A) A {
	p := A(1)
	for p < n {
		p <<= 1
	}
	return p
}

func GatherLevelPaths(dir string, exts ...string) ([]string, error) {
	var res []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if slices.Contains(exts, ext) {
			res = append(res, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(res)
	return res, nil
}
