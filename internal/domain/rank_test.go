package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type ranked struct {
	key   string
	value float64
}

func keysOf(items []ranked) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.key
	}
	return out
}

func TestSortDescending(t *testing.T) {
	items := []ranked{
		{"A", 10}, {"B", 30}, {"D", math.NaN()}, {"C", 20}, {"E", 30}, {"F", math.NaN()},
	}

	SortDescending(items, func(r ranked) float64 { return r.value })

	assert.Equal(t, []string{"B", "E", "C", "A", "D", "F"}, keysOf(items))
}

func TestSortDescending_TiesKeepPriorOrder(t *testing.T) {
	items := []ranked{{"E", 5}, {"B", 5}, {"A", 7}, {"C", 5}}

	SortDescending(items, func(r ranked) float64 { return r.value })

	assert.Equal(t, []string{"A", "E", "B", "C"}, keysOf(items))
}
