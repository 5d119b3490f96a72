package repository

import (
	"github.com/camden-git/familyring/models"
)

// PersonRepositoryInterface defines the methods for person data operations
type PersonRepositoryInterface interface {
	ListAll() ([]models.Person, error)
	GetByCode(code string) (*models.Person, error)
	Count() (int64, error)
	ReplaceAll(people []*models.Person) error
}

var _ PersonRepositoryInterface = (*PersonRepository)(nil)
