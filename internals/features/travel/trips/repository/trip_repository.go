package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "travelku_backend/internals/features/travel/trips/model"
)

// TripRepository is the persistence boundary for trips and their timelines.
// Timeline entries are always written with sort_order = 1-based array
// position and read back ordered ascending.
type TripRepository struct {
	DB *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{DB: db}
}

type ListFilter struct {
	DisplayOnly bool
	Destination string
	Offset      int
	Limit       int
}

func stampSortOrder(tripID uuid.UUID, entries []model.TripTimelineModel) {
	for i := range entries {
		entries[i].TripTimelineTripID = tripID
		entries[i].TripTimelineSortOrder = i + 1
	}
}

func (r *TripRepository) Create(ctx context.Context, trip *model.TripModel, entries []model.TripTimelineModel) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("TripTimeline").Create(trip).Error; err != nil {
			return err
		}
		stampSortOrder(trip.TripID, entries)
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return err
			}
		}
		trip.TripTimeline = entries
		return nil
	})
}

// Update replaces the trip row and the full timeline set in one transaction.
func (r *TripRepository) Update(ctx context.Context, id uuid.UUID, trip *model.TripModel, entries []model.TripTimelineModel) error {
	trip.TripID = id
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.TripModel{}).
			Where("trip_id = ?", id).
			Select("*").
			Omit("trip_id", "trip_created_at").
			Updates(trip)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("trip_timeline_trip_id = ?", id).
			Delete(&model.TripTimelineModel{}).Error; err != nil {
			return err
		}
		stampSortOrder(id, entries)
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return err
			}
		}
		trip.TripTimeline = entries
		return nil
	})
}

func (r *TripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_timeline_trip_id = ?", id).
			Delete(&model.TripTimelineModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("trip_id = ?", id).Delete(&model.TripModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *TripRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TripModel, error) {
	var m model.TripModel
	err := r.DB.WithContext(ctx).
		Preload("TripTimeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("trip_timeline_sort_order ASC")
		}).
		Where("trip_id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *TripRepository) List(ctx context.Context, f ListFilter) ([]model.TripModel, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.TripModel{})
	if f.DisplayOnly {
		q = q.Where("trip_display = ?", true)
	}
	if dest := strings.TrimSpace(f.Destination); dest != "" {
		q = q.Where("trip_destination ILIKE ?", "%"+dest+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []model.TripModel
	q = q.Preload("TripTimeline", func(db *gorm.DB) *gorm.DB {
		return db.Order("trip_timeline_sort_order ASC")
	}).Order("trip_from_date ASC, trip_created_at DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
