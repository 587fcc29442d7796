package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	dto "travelku_backend/internals/features/travel/trips/dto"
	model "travelku_backend/internals/features/travel/trips/model"
	helperOSS "travelku_backend/internals/helpers/oss"
)

const (
	FolderProgramImages  = "program-images"
	FolderTimelineImages = "timeline-images"

	dateLayout = "2006-01-02"

	// concurrent uploads per submission
	uploadParallelism = 4
)

// TripStore is the persistence boundary the reconciliation service writes
// through. *repository.TripRepository satisfies it; tests use a fake.
type TripStore interface {
	Create(ctx context.Context, trip *model.TripModel, entries []model.TripTimelineModel) error
	Update(ctx context.Context, id uuid.UUID, trip *model.TripModel, entries []model.TripTimelineModel) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.TripModel, error)
}

var validateTrip = validator.New()

// TripService reconciles an admin-submitted multipart form into a consistent
// persisted trip with externally hosted images: uploads in parallel, maps
// timeline images to day indices, persists trip+timeline in one logical
// write, rolls uploads back when persistence fails, and cleans up orphaned
// objects after a successful replace.
type TripService struct {
	Store TripStore
	Blob  helperOSS.BlobService
}

func NewTripService(store TripStore, blob helperOSS.BlobService) *TripService {
	return &TripService{Store: store, Blob: blob}
}

/* ===================== validation & dates ===================== */

func validateSubmission(sub dto.TripSubmission) error {
	if err := validateTrip.Struct(sub); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("missing or invalid field: %s", ve[0].Field()))
		}
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	return nil
}

// resolveDates parses trip_from_date and derives trip_to_date when blank as
// from_date + days (calendar days, exclusive end: a 5-day trip starting
// June 1 ends June 6).
func resolveDates(sub dto.TripSubmission) (from, to time.Time, err error) {
	from, err = time.Parse(dateLayout, sub.TripFromDate)
	if err != nil {
		return from, to, fiber.NewError(fiber.StatusBadRequest, "invalid date format")
	}
	if sub.TripToDate == "" {
		return from, from.AddDate(0, 0, sub.TripDays), nil
	}
	to, err = time.Parse(dateLayout, sub.TripToDate)
	if err != nil {
		return from, to, fiber.NewError(fiber.StatusBadRequest, "invalid date format")
	}
	if to.Before(from) {
		return from, to, fiber.NewError(fiber.StatusBadRequest, "trip_to_date must not be before trip_from_date")
	}
	return from, to, nil
}

/* ===================== uploads ===================== */

// uploadOrdered uploads all files in parallel and returns their public URLs
// in input order. On any failure it deletes whatever did get uploaded before
// returning the error, so the caller never inherits partial state.
func (s *TripService) uploadOrdered(ctx context.Context, folder string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadParallelism)
	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			u, err := s.Blob.UploadImage(gctx, folder, fh)
			if err != nil {
				return err
			}
			urls[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.rollbackUploads(ctx, urls)
		return nil, err
	}
	return urls, nil
}

// timelineAssignments merges positional files (Nth file → Nth entry) with
// indexed files (timeline_images[N] → entry N); indexed wins per slot.
func timelineAssignments(form *dto.TripSubmissionForm, entryCount int) (map[int]*multipart.FileHeader, error) {
	assign := make(map[int]*multipart.FileHeader, len(form.TimelineFiles)+len(form.TimelineFilesByIndex))
	for j, fh := range form.TimelineFiles {
		if j >= entryCount {
			return nil, fiber.NewError(fiber.StatusBadRequest, "more timeline images than timeline entries")
		}
		assign[j] = fh
	}
	for idx, fh := range form.TimelineFilesByIndex {
		if idx < 0 || idx >= entryCount {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("timeline image index %d out of range", idx))
		}
		assign[idx] = fh
	}
	return assign, nil
}

// uploadTimeline uploads the assigned timeline files in parallel and returns
// index → public URL. Same partial-rollback contract as uploadOrdered.
func (s *TripService) uploadTimeline(ctx context.Context, assign map[int]*multipart.FileHeader) (map[int]string, error) {
	if len(assign) == 0 {
		return nil, nil
	}
	idxs := make([]int, 0, len(assign))
	for idx := range assign {
		idxs = append(idxs, idx)
	}
	urls := make([]string, len(idxs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadParallelism)
	for i, idx := range idxs {
		i, fh := i, assign[idx]
		g.Go(func() error {
			u, err := s.Blob.UploadImage(gctx, FolderTimelineImages, fh)
			if err != nil {
				return err
			}
			urls[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.rollbackUploads(ctx, urls)
		return nil, err
	}
	out := make(map[int]string, len(idxs))
	for i, idx := range idxs {
		out[idx] = urls[i]
	}
	return out, nil
}

// rollbackUploads deletes already-uploaded objects after a failed submission.
// Best effort: failures are logged, the original error still propagates.
func (s *TripService) rollbackUploads(ctx context.Context, urls []string) {
	live := urls[:0:0]
	for _, u := range urls {
		if u != "" {
			live = append(live, u)
		}
	}
	helperOSS.CleanupURLs(ctx, s.Blob, live)
}

/* ===================== create ===================== */

func (s *TripService) Create(ctx context.Context, form *dto.TripSubmissionForm) (*model.TripModel, error) {
	if err := validateSubmission(form.Data); err != nil {
		return nil, err
	}
	from, to, err := resolveDates(form.Data)
	if err != nil {
		return nil, err
	}
	assign, err := timelineAssignments(form, len(form.Data.Timeline))
	if err != nil {
		return nil, err
	}

	gallery, err := s.uploadOrdered(ctx, FolderProgramImages, form.GalleryFiles)
	if err != nil {
		return nil, err
	}
	timelineURLs, err := s.uploadTimeline(ctx, assign)
	if err != nil {
		s.rollbackUploads(ctx, gallery)
		return nil, err
	}

	trip := form.Data.ToModel()
	trip.TripImages = gallery
	trip.TripFromDate = from
	trip.TripToDate = to

	entries := make([]model.TripTimelineModel, len(form.Data.Timeline))
	for i, e := range form.Data.Timeline {
		entries[i] = model.TripTimelineModel{
			TripTimelineTitle:       e.TimelineTitle,
			TripTimelineDescription: e.TimelineDescription,
			TripTimelineDate:        from.AddDate(0, 0, i),
		}
		if u, ok := timelineURLs[i]; ok {
			u := u
			entries[i].TripTimelineImage = &u
		}
	}

	if err := s.Store.Create(ctx, trip, entries); err != nil {
		// storage objects without an owning trip are invisible garbage
		all := append(append([]string{}, gallery...), mapValues(timelineURLs)...)
		s.rollbackUploads(ctx, all)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to save trip")
	}
	return trip, nil
}

/* ===================== update ===================== */

func (s *TripService) Update(ctx context.Context, id uuid.UUID, form *dto.TripSubmissionForm) (*model.TripModel, error) {
	if err := validateSubmission(form.Data); err != nil {
		return nil, err
	}
	from, to, err := resolveDates(form.Data)
	if err != nil {
		return nil, err
	}
	assign, err := timelineAssignments(form, len(form.Data.Timeline))
	if err != nil {
		return nil, err
	}

	existing, err := s.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Trip not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load trip")
	}

	newGallery, err := s.uploadOrdered(ctx, FolderProgramImages, form.GalleryFiles)
	if err != nil {
		return nil, err
	}
	timelineURLs, err := s.uploadTimeline(ctx, assign)
	if err != nil {
		s.rollbackUploads(ctx, newGallery)
		return nil, err
	}

	// Gallery semantics: an explicit kept_images list merges (kept ∪ new, in
	// that order); without one, any new upload replaces the gallery outright.
	var finalGallery []string
	switch {
	case form.HasKeptImages:
		finalGallery = append(append([]string{}, form.KeptImages...), newGallery...)
	case len(newGallery) > 0:
		finalGallery = newGallery
	default:
		finalGallery = existing.TripImages
	}

	trip := form.Data.ToModel()
	trip.TripImages = finalGallery
	trip.TripFromDate = from
	trip.TripToDate = to

	entries := make([]model.TripTimelineModel, len(form.Data.Timeline))
	for i, e := range form.Data.Timeline {
		entries[i] = model.TripTimelineModel{
			TripTimelineTitle:       e.TimelineTitle,
			TripTimelineDescription: e.TimelineDescription,
			TripTimelineDate:        from.AddDate(0, 0, i),
		}
		if u, ok := timelineURLs[i]; ok {
			u := u
			entries[i].TripTimelineImage = &u
		} else if e.TimelineImage != nil && *e.TimelineImage != "" {
			entries[i].TripTimelineImage = e.TimelineImage
		}
	}

	if err := s.Store.Update(ctx, id, trip, entries); err != nil {
		all := append(append([]string{}, newGallery...), mapValues(timelineURLs)...)
		s.rollbackUploads(ctx, all)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Trip not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to update trip")
	}

	// Orphan cleanup only after the write succeeded, and never blocking the
	// response on its completion or failure.
	orphans := diffURLs(existing.AllImageURLs(), trip.AllImageURLs())
	if len(orphans) > 0 {
		go func() {
			cctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			helperOSS.CleanupURLs(cctx, s.Blob, orphans)
		}()
	}
	return trip, nil
}

/* ===================== delete ===================== */

func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Trip not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load trip")
	}

	if err := s.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Trip not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete trip")
	}

	urls := existing.AllImageURLs()
	if len(urls) > 0 {
		go func() {
			cctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			helperOSS.CleanupURLs(cctx, s.Blob, urls)
		}()
	}
	return nil
}

/* ===================== helpers ===================== */

func mapValues(m map[int]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

// diffURLs returns the entries of old absent from new.
func diffURLs(old, new []string) []string {
	keep := make(map[string]bool, len(new))
	for _, u := range new {
		keep[u] = true
	}
	var out []string
	for _, u := range old {
		if u != "" && !keep[u] {
			out = append(out, u)
		}
	}
	return out
}
