package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/camden-git/familyring/models"
)

const replaceBatchSize = 200

// PersonRepository handles database operations for the people table
type PersonRepository struct {
	DB *gorm.DB
}

// NewPersonRepository creates a new instance of PersonRepository
func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

// ListAll retrieves all people, ordered by generation and code
func (r *PersonRepository) ListAll() ([]models.Person, error) {
	var people []models.Person
	err := r.DB.Order("generation ASC").Order("code ASC").Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}

// GetByCode retrieves a person by their current code
func (r *PersonRepository) GetByCode(code string) (*models.Person, error) {
	var person models.Person
	err := r.DB.Where("code = ?", code).First(&person).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person by code %s: %w", code, err)
	}
	return &person, nil
}

// Count returns the number of stored people
func (r *PersonRepository) Count() (int64, error) {
	var n int64
	if err := r.DB.Model(&models.Person{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count people: %w", err)
	}
	return n, nil
}

// ReplaceAll swaps the stored family for people in one transaction. Renumbering
// can change many codes at once, so the table is rewritten as a whole rather
// than patched row by row.
func (r *PersonRepository) ReplaceAll(people []*models.Person) error {
	now := time.Now().Unix()
	rows := make([]models.Person, len(people))
	for i, p := range people {
		rows[i] = *p
		rows[i].ID = 0
		if rows[i].UpdatedAt == 0 {
			rows[i].UpdatedAt = now
		}
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Person{}).Error; err != nil {
			return fmt.Errorf("failed to clear people table: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&rows, replaceBatchSize).Error; err != nil {
			return fmt.Errorf("failed to store %d people: %w", len(rows), err)
		}
		return nil
	})
}
