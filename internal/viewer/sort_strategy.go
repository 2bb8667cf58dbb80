package viewer

import (
	"sort"
	"strings"

	"github.com/maruel/natural"

	"bmpview/internal/config"
)

// SortStrategy defines how sibling filenames are ordered
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the input
	Sort(names []string) []string
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the numeric identifier for config storage
	ID() int
}

// CaseInsensitiveSortStrategy orders names by their lowercased form. Names
// whose lowercased forms collide keep their scan order.
type CaseInsensitiveSortStrategy struct{}

func (s *CaseInsensitiveSortStrategy) Sort(names []string) []string {
	result := cloneNames(names)
	lower := make(map[string]string, len(result))
	for _, n := range result {
		lower[n] = strings.ToLower(n)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return lower[result[i]] < lower[result[j]]
	})
	return result
}

func (s *CaseInsensitiveSortStrategy) Name() string {
	return "Case-insensitive"
}

func (s *CaseInsensitiveSortStrategy) ID() int {
	return config.SortCaseInsensitive
}

// NaturalSortStrategy implements natural sorting on lowercased names using maruel/natural
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(names []string) []string {
	result := cloneNames(names)
	sort.SliceStable(result, func(i, j int) bool {
		return natural.Less(strings.ToLower(result[i]), strings.ToLower(result[j]))
	})
	return result
}

func (s *NaturalSortStrategy) Name() string {
	return "Natural"
}

func (s *NaturalSortStrategy) ID() int {
	return config.SortNatural
}

// EntryOrderSortStrategy preserves the directory order
type EntryOrderSortStrategy struct{}

func (s *EntryOrderSortStrategy) Sort(names []string) []string {
	return cloneNames(names)
}

func (s *EntryOrderSortStrategy) Name() string {
	return "Entry Order"
}

func (s *EntryOrderSortStrategy) ID() int {
	return config.SortEntryOrder
}

func cloneNames(names []string) []string {
	result := make([]string, len(names))
	copy(result, names)
	return result
}

// GetSortStrategy returns the appropriate strategy based on the sort method ID
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case config.SortCaseInsensitive:
		return &CaseInsensitiveSortStrategy{}
	case config.SortNatural:
		return &NaturalSortStrategy{}
	case config.SortEntryOrder:
		return &EntryOrderSortStrategy{}
	default:
		return &CaseInsensitiveSortStrategy{} // Default fallback
	}
}

// GetAllSortStrategies returns all available sort strategies
func GetAllSortStrategies() []SortStrategy {
	return []SortStrategy{
		&CaseInsensitiveSortStrategy{},
		&NaturalSortStrategy{},
		&EntryOrderSortStrategy{},
	}
}
