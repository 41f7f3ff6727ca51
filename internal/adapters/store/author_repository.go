package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/jsamuelsen/quotesboard/internal/domain"
)

// AuthorRepository implements ports.AuthorRepository.
type AuthorRepository struct {
	db *DB
}

// NewAuthorRepository binds the repository to db.
func NewAuthorRepository(db *DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

func (r *AuthorRepository) Create(ctx context.Context, rawName string) (domain.Author, error) {
	row := AuthorRow{RawName: rawName}

	err := r.db.session(ctx).Omit(clause.Associations).Create(&row).Error
	if err != nil {
		return domain.Author{}, translate(err, nil, func() error {
			return domain.NewConflictError("author", fmt.Sprintf("raw_name %q already exists", rawName))
		})
	}

	return row.toDomain(), nil
}

func (r *AuthorRepository) GetByID(ctx context.Context, id uint) (domain.Author, error) {
	var row AuthorRow

	if err := r.db.session(ctx).Take(&row, id).Error; err != nil {
		return domain.Author{}, translate(err, func() error { return domain.NewNotFoundError("author", id) }, nil)
	}

	return row.toDomain(), nil
}

func (r *AuthorRepository) GetByRawName(ctx context.Context, rawName string) (domain.Author, error) {
	var row AuthorRow

	err := r.db.session(ctx).Where("raw_name = ?", rawName).Take(&row).Error
	if err != nil {
		return domain.Author{}, translate(err, func() error { return domain.NewNotFoundErrorByKey("author", rawName) }, nil)
	}

	return row.toDomain(), nil
}

func (r *AuthorRepository) GetMany(ctx context.Context, ids []uint) (map[uint]domain.Author, error) {
	out := make(map[uint]domain.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []AuthorRow
	if err := r.db.session(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading authors: %w", err)
	}

	for _, row := range rows {
		out[row.ID] = row.toDomain()
	}

	return out, nil
}
