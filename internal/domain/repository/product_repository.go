package repository

import "github.com/jhoicas/lotes-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// Search recibe el término ya normalizado (minúsculas, sin tildes) y lo
// compara contra la columna normalizada.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(limit, offset int) ([]*entity.Product, error)
	Search(normalizedTerm string, limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}
