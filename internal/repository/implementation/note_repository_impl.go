package implementation

import (
	"context"
	"errors"

	"workspace-be/internal/entity"
	"workspace-be/internal/mapper"
	"workspace-be/internal/model"
	"workspace-be/internal/repository/contract"
	"workspace-be/internal/repository/specification"

	"gorm.io/gorm"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	m, err := r.mapper.ToModel(note)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := r.applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id}).Delete(&model.Note{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return contract.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepositoryImpl) FindById(ctx context.Context, id string) (*entity.Note, error) {
	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *NoteRepositoryImpl) FindAll(ctx context.Context) ([]entity.Note, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.OrderBy{Field: "created_at"},
		specification.OrderBy{Field: "id"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models)
}
