package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/nvolkov/brewhub-backend/internal/errors"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
)

const defaultListLimit = 100

// queryOptions collects the per-call knobs for the generic operations.
type queryOptions struct {
	uniqueFields map[string]interface{}
	preloads     []string
	skip         int
	limit        int
	sort         string
	sortSet      bool
}

type QueryOption func(*queryOptions)

// WithUniqueFields makes Create reject the insert with ErrConflict when
// another live row already has the same values for the given columns.
func WithUniqueFields(fields map[string]interface{}) QueryOption {
	return func(o *queryOptions) {
		o.uniqueFields = fields
	}
}

// WithPreload eagerly loads the named relations on reads.
func WithPreload(relations ...string) QueryOption {
	return func(o *queryOptions) {
		o.preloads = append(o.preloads, relations...)
	}
}

// WithPagination sets the offset and page size for List. A non-positive
// limit keeps the default page size.
func WithPagination(skip, limit int) QueryOption {
	return func(o *queryOptions) {
		if skip > 0 {
			o.skip = skip
		}
		if limit > 0 {
			o.limit = limit
		}
	}
}

// WithSort overrides the default created_at DESC ordering, e.g. "price ASC".
func WithSort(order string) QueryOption {
	return func(o *queryOptions) {
		o.sort = order
		o.sortSet = true
	}
}

func applyOptions(opts []QueryOption) *queryOptions {
	o := &queryOptions{limit: defaultListLimit}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// BaseRepository provides the CRUD surface every entity repository shares.
// Models carrying gorm.DeletedAt get soft deletes and live-rows-only reads
// for free through the GORM soft delete hooks.
type BaseRepository[T any] struct {
	db     *gorm.DB
	entity string
}

func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{
		db:     db,
		entity: fmt.Sprintf("%T", *new(T)),
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *BaseRepository[T]) WithTx(tx *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: tx, entity: r.entity}
}

// DB exposes the underlying handle for transaction control.
func (r *BaseRepository[T]) DB() *gorm.DB {
	return r.db
}

// Create inserts the entity. With WithUniqueFields it first checks that no
// live row claims the same values and returns ErrConflict if one does.
func (r *BaseRepository[T]) Create(entity *T, opts ...QueryOption) error {
	o := applyOptions(opts)

	logger.Debug("Creating entity in database", map[string]interface{}{
		"entity": r.entity,
	})

	if len(o.uniqueFields) > 0 {
		var count int64
		if err := r.db.Model(new(T)).Where(o.uniqueFields).Count(&count).Error; err != nil {
			logger.Error("Failed to check unique fields", err, map[string]interface{}{
				"entity": r.entity,
			})
			return err
		}
		if count > 0 {
			return apperrors.ErrConflict
		}
	}

	if err := r.db.Create(entity).Error; err != nil {
		logger.Error("Failed to create entity in database", err, map[string]interface{}{
			"entity": r.entity,
		})
		return apperrors.Translate(err)
	}
	return nil
}

// Get returns the first live row matching the filters, or (nil, nil) when
// no such row exists. Absence is not an error at this layer.
func (r *BaseRepository[T]) Get(filters map[string]interface{}, opts ...QueryOption) (*T, error) {
	o := applyOptions(opts)

	query := r.db
	for _, rel := range o.preloads {
		query = query.Preload(rel)
	}

	var entity T
	err := query.Where(filters).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to get entity from database", err, map[string]interface{}{
			"entity":  r.entity,
			"filters": filters,
		})
		return nil, err
	}
	return &entity, nil
}

// GetByID is Get keyed on the primary key.
func (r *BaseRepository[T]) GetByID(id uint, opts ...QueryOption) (*T, error) {
	return r.Get(map[string]interface{}{"id": id}, opts...)
}

// Update applies the patch to the entity. Only the columns present in the
// patch change; an empty patch is a no-op and leaves updated_at untouched.
func (r *BaseRepository[T]) Update(entity *T, patch map[string]interface{}) error {
	if len(patch) == 0 {
		return nil
	}

	logger.Debug("Updating entity in database", map[string]interface{}{
		"entity": r.entity,
		"fields": len(patch),
	})

	if err := r.db.Model(entity).Updates(patch).Error; err != nil {
		logger.Error("Failed to update entity in database", err, map[string]interface{}{
			"entity": r.entity,
		})
		return apperrors.Translate(err)
	}

	// Reload so the caller sees exactly what the database holds
	return r.db.First(entity).Error
}

// Delete removes the rows matching the filters, softly when the model
// supports it. Deleting nothing is ErrNotFound.
func (r *BaseRepository[T]) Delete(filters map[string]interface{}) error {
	logger.Debug("Deleting entity from database", map[string]interface{}{
		"entity":  r.entity,
		"filters": filters,
	})

	result := r.db.Where(filters).Delete(new(T))
	if result.Error != nil {
		logger.Error("Failed to delete entity from database", result.Error, map[string]interface{}{
			"entity": r.entity,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// List returns the live rows matching the filters, newest first unless
// WithSort says otherwise, capped at the default page size.
func (r *BaseRepository[T]) List(filters map[string]interface{}, opts ...QueryOption) ([]T, error) {
	o := applyOptions(opts)

	query := r.db
	for _, rel := range o.preloads {
		query = query.Preload(rel)
	}
	if len(filters) > 0 {
		query = query.Where(filters)
	}
	if o.sortSet {
		query = query.Order(o.sort)
	} else {
		query = query.Order("created_at DESC")
	}

	var entities []T
	err := query.Offset(o.skip).Limit(o.limit).Find(&entities).Error
	if err != nil {
		logger.Error("Failed to list entities from database", err, map[string]interface{}{
			"entity": r.entity,
		})
		return nil, err
	}
	return entities, nil
}

// Count returns the number of live rows matching the filters.
func (r *BaseRepository[T]) Count(filters map[string]interface{}) (int64, error) {
	query := r.db.Model(new(T))
	if len(filters) > 0 {
		query = query.Where(filters)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to count entities in database", err, map[string]interface{}{
			"entity": r.entity,
		})
		return 0, err
	}
	return count, nil
}
