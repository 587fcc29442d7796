package dto

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Multipart field names accepted from the admin UI. program_data is the
// canonical name; the camelCase aliases are kept for older clients.
const (
	FieldProgramData    = "program_data"
	FieldProgramImages  = "program_images[]"
	FieldTimelineImages = "timeline_images[]"
	FieldKeptImages     = "kept_images"
)

const (
	MaxGalleryFiles  = 10
	MaxTimelineFiles = 50
)

var timelineIndexedRe = regexp.MustCompile(`^timeline_images\[(\d+)\]$`)

// TripSubmissionForm is the fully parsed multipart submission. Parsing is
// pure: nothing is uploaded or persisted here.
type TripSubmissionForm struct {
	Data TripSubmission

	// Gallery files, submission order preserved
	GalleryFiles []*multipart.FileHeader

	// Timeline files keyed by 0-based entry index (timeline_images[3]=...)
	TimelineFilesByIndex map[int]*multipart.FileHeader

	// Timeline files submitted without an index (bare timeline_images[]),
	// aligned positionally to the entries that lack an indexed file
	TimelineFiles []*multipart.FileHeader

	// kept_images was present (even if empty) → merge semantics on update;
	// absent → full replace once any new gallery file is uploaded
	KeptImages    []string
	HasKeptImages bool
}

// ParseTripSubmission decodes a multipart/form-data request into a
// TripSubmissionForm, enforcing size and count limits.
func ParseTripSubmission(c *fiber.Ctx, maxFileBytes int64) (*TripSubmissionForm, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Expected multipart/form-data body")
	}
	return ParseTripSubmissionForm(form, maxFileBytes)
}

// ParseTripSubmissionForm is the testable core of the parser.
func ParseTripSubmissionForm(form *multipart.Form, maxFileBytes int64) (*TripSubmissionForm, error) {
	out := &TripSubmissionForm{
		TimelineFilesByIndex: map[int]*multipart.FileHeader{},
	}

	// ---- JSON payload ----
	raw := firstValue(form, FieldProgramData, "programData")
	if strings.TrimSpace(raw) == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Missing program_data field")
	}
	if err := json.Unmarshal([]byte(raw), &out.Data); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "payload not valid JSON")
	}

	// ---- kept images (optional, presence matters) ----
	if vals, key := lookupValues(form, FieldKeptImages, "keptImages"); key != "" {
		out.HasKeptImages = true
		if len(vals) > 0 && strings.TrimSpace(vals[0]) != "" {
			if err := json.Unmarshal([]byte(vals[0]), &out.KeptImages); err != nil {
				return nil, fiber.NewError(fiber.StatusBadRequest, "kept_images not valid JSON")
			}
		}
	}

	// ---- gallery files ----
	out.GalleryFiles = filesFor(form, FieldProgramImages, "program_images")
	if len(out.GalleryFiles) > MaxGalleryFiles {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("Too many gallery images (max %d)", MaxGalleryFiles))
	}

	// ---- timeline files: indexed first, bare array as fallback ----
	total := 0
	for key, fhs := range form.File {
		m := timelineIndexedRe.FindStringSubmatch(key)
		if m == nil || len(fhs) == 0 || fhs[0] == nil || fhs[0].Filename == "" {
			continue
		}
		idx, _ := strconv.Atoi(m[1])
		out.TimelineFilesByIndex[idx] = fhs[0]
		total++
	}
	out.TimelineFiles = filesFor(form, FieldTimelineImages, "timeline_images")
	total += len(out.TimelineFiles)
	if total > MaxTimelineFiles {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("Too many timeline images (max %d)", MaxTimelineFiles))
	}

	// ---- per-file size guard ----
	if maxFileBytes > 0 {
		for _, fh := range out.allFiles() {
			if fh.Size > maxFileBytes {
				return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge,
					fmt.Sprintf("File %s exceeds the %d MB limit", fh.Filename, maxFileBytes/(1024*1024)))
			}
		}
	}

	return out, nil
}

func (f *TripSubmissionForm) allFiles() []*multipart.FileHeader {
	out := make([]*multipart.FileHeader, 0, len(f.GalleryFiles)+len(f.TimelineFiles)+len(f.TimelineFilesByIndex))
	out = append(out, f.GalleryFiles...)
	out = append(out, f.TimelineFiles...)
	for _, fh := range f.TimelineFilesByIndex {
		out = append(out, fh)
	}
	return out
}

func firstValue(form *multipart.Form, keys ...string) string {
	for _, k := range keys {
		if vals, ok := form.Value[k]; ok && len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

func lookupValues(form *multipart.Form, keys ...string) ([]string, string) {
	for _, k := range keys {
		if vals, ok := form.Value[k]; ok {
			return vals, k
		}
	}
	return nil, ""
}

func filesFor(form *multipart.Form, keys ...string) []*multipart.FileHeader {
	var out []*multipart.FileHeader
	for _, k := range keys {
		fhs, ok := form.File[k]
		if !ok {
			continue
		}
		for _, fh := range fhs {
			if fh != nil && fh.Filename != "" {
				out = append(out, fh)
			}
		}
	}
	return out
}
