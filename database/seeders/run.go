// Package seeders fills the database with starter data for local
// development.
package seeders

import (
	"fmt"

	"gorm.io/gorm"
)

type seeder struct {
	name string
	fn   func(*gorm.DB) error
}

var seeds []seeder

func register(name string, fn func(*gorm.DB) error) {
	seeds = append(seeds, seeder{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order.
// Seeders are idempotent; re-running them is safe.
func RunAll(db *gorm.DB) error {
	for _, s := range seeds {
		fmt.Printf("  ▶ Seeding: %s\n", s.name)
		if err := s.fn(db); err != nil {
			return fmt.Errorf("seeder %s: %w", s.name, err)
		}
		fmt.Printf("  ✅ Seeded:  %s\n", s.name)
	}
	return nil
}
