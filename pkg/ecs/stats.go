package ecs

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Stats is a point-in-time summary of a store's memory layout.
type Stats struct {
	StoreID    uuid.UUID        `json:"storeId"`
	Entities   int              `json:"entities"`
	NextID     EntityID         `json:"nextId"`
	Components []ComponentStats `json:"components"`
}

// ComponentStats summarizes one component storage.
type ComponentStats struct {
	Name         string `json:"name"`
	Count        int    `json:"count"`        // Number of entities with the component
	ActivePages  int    `json:"activePages"`  // Allocated sparse pages
	PageCapacity int    `json:"pageCapacity"` // Length of the page table, allocated or not
}

// Stats returns the store's current stats. Components are sorted by name.
func (s *Store) Stats() Stats {
	storages := s.components.all()
	components := make([]ComponentStats, 0, len(storages))
	for _, storage := range storages {
		components = append(components, ComponentStats{
			Name:         storage.name(),
			Count:        storage.len(),
			ActivePages:  storage.activePages(),
			PageCapacity: storage.pageCapacity(),
		})
	}
	slices.SortFunc(components, func(a, b ComponentStats) int {
		return strings.Compare(a.Name, b.Name)
	})

	return Stats{
		StoreID:    s.id,
		Entities:   s.entities.count(),
		NextID:     s.entities.nextID,
		Components: components,
	}
}
