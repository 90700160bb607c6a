package domain

import "slices"

// SortDescending stably orders items by value, largest first, in place.
// Missing values sort after every defined value; ties and missing values keep
// their current relative order.
func SortDescending[T any](items []T, value func(T) float64) {
	slices.SortStableFunc(items, func(a, b T) int {
		va, vb := value(a), value(b)
		ma, mb := IsMissing(va), IsMissing(vb)
		switch {
		case ma && mb:
			return 0
		case ma:
			return 1
		case mb:
			return -1
		case va > vb:
			return -1
		case va < vb:
			return 1
		default:
			return 0
		}
	})
}
