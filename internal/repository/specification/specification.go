package specification

import "gorm.io/gorm"

// Specification narrows a GORM query.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
