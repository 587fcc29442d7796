package dto

import (
	"fmt"
	"mime/multipart"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProgramData = `{
	"trip_title": "Komodo Island Adventure",
	"trip_description": "Sail the Flores sea.",
	"trip_origin": "Jakarta",
	"trip_destination": "Labuan Bajo",
	"trip_days": 3,
	"trip_from_date": "2026-06-01",
	"timeline": [
		{"timeline_title": "Day 1"},
		{"timeline_title": "Day 2"},
		{"timeline_title": "Day 3"}
	]
}`

func mpForm(values map[string][]string, files map[string][]string) *multipart.Form {
	form := &multipart.Form{
		Value: values,
		File:  map[string][]*multipart.FileHeader{},
	}
	for key, names := range files {
		for _, n := range names {
			form.File[key] = append(form.File[key], &multipart.FileHeader{Filename: n, Size: 2048})
		}
	}
	return form
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	return fe.Code
}

func TestParseValidSubmission(t *testing.T) {
	form := mpForm(
		map[string][]string{FieldProgramData: {validProgramData}},
		map[string][]string{
			FieldProgramImages:   {"g1.jpg", "g2.jpg"},
			"timeline_images[0]": {"d1.jpg"},
			"timeline_images[2]": {"d3.jpg"},
		},
	)

	out, err := ParseTripSubmissionForm(form, 5<<20)
	require.NoError(t, err)

	assert.Equal(t, "Komodo Island Adventure", out.Data.TripTitle)
	assert.Len(t, out.Data.Timeline, 3)
	require.Len(t, out.GalleryFiles, 2)
	assert.Equal(t, "g1.jpg", out.GalleryFiles[0].Filename)
	assert.Equal(t, "g2.jpg", out.GalleryFiles[1].Filename)
	require.Len(t, out.TimelineFilesByIndex, 2)
	assert.Equal(t, "d1.jpg", out.TimelineFilesByIndex[0].Filename)
	assert.Equal(t, "d3.jpg", out.TimelineFilesByIndex[2].Filename)
	assert.False(t, out.HasKeptImages)
}

func TestParseCamelCaseAliases(t *testing.T) {
	form := mpForm(
		map[string][]string{
			"programData": {validProgramData},
			"keptImages":  {`["https://cdn.example.com/a.jpg"]`},
		},
		nil,
	)

	out, err := ParseTripSubmissionForm(form, 0)
	require.NoError(t, err)
	assert.Equal(t, "Komodo Island Adventure", out.Data.TripTitle)
	assert.True(t, out.HasKeptImages)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, out.KeptImages)
}

func TestParseMissingProgramData(t *testing.T) {
	form := mpForm(map[string][]string{}, nil)
	_, err := ParseTripSubmissionForm(form, 0)
	assert.Equal(t, fiber.StatusBadRequest, statusOf(t, err))
}

func TestParseMalformedJSON(t *testing.T) {
	form := mpForm(map[string][]string{FieldProgramData: {`{"trip_title": `}}, nil)
	_, err := ParseTripSubmissionForm(form, 0)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, statusOf(t, err))
	assert.Contains(t, err.Error(), "JSON")
}

func TestParseEmptyKeptImagesStillCountsAsPresent(t *testing.T) {
	form := mpForm(
		map[string][]string{
			FieldProgramData: {validProgramData},
			FieldKeptImages:  {""},
		},
		nil,
	)

	out, err := ParseTripSubmissionForm(form, 0)
	require.NoError(t, err)
	assert.True(t, out.HasKeptImages)
	assert.Empty(t, out.KeptImages)
}

func TestParseBadKeptImagesJSON(t *testing.T) {
	form := mpForm(
		map[string][]string{
			FieldProgramData: {validProgramData},
			FieldKeptImages:  {"not json"},
		},
		nil,
	)
	_, err := ParseTripSubmissionForm(form, 0)
	assert.Equal(t, fiber.StatusBadRequest, statusOf(t, err))
}

func TestParseTooManyGalleryImages(t *testing.T) {
	names := make([]string, MaxGalleryFiles+1)
	for i := range names {
		names[i] = fmt.Sprintf("g%d.jpg", i)
	}
	form := mpForm(
		map[string][]string{FieldProgramData: {validProgramData}},
		map[string][]string{FieldProgramImages: names},
	)
	_, err := ParseTripSubmissionForm(form, 0)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, statusOf(t, err))
}

func TestParseOversizedFile(t *testing.T) {
	form := mpForm(
		map[string][]string{FieldProgramData: {validProgramData}},
		map[string][]string{FieldProgramImages: {"huge.jpg"}},
	)
	form.File[FieldProgramImages][0].Size = 6 << 20

	_, err := ParseTripSubmissionForm(form, 5<<20)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, statusOf(t, err))
	assert.Contains(t, err.Error(), "huge.jpg")
}

func TestParseSkipsEmptyFileSlots(t *testing.T) {
	form := mpForm(
		map[string][]string{FieldProgramData: {validProgramData}},
		nil,
	)
	// browsers submit an empty part when the file input is left blank
	form.File[FieldProgramImages] = []*multipart.FileHeader{{Filename: "", Size: 0}}

	out, err := ParseTripSubmissionForm(form, 0)
	require.NoError(t, err)
	assert.Empty(t, out.GalleryFiles)
}

func TestParseIgnoresNonNumericTimelineKeys(t *testing.T) {
	form := mpForm(
		map[string][]string{FieldProgramData: {validProgramData}},
		map[string][]string{
			"timeline_images[abc]": {"x.jpg"},
			"timeline_images[1]":   {"d2.jpg"},
		},
	)

	out, err := ParseTripSubmissionForm(form, 0)
	require.NoError(t, err)
	require.Len(t, out.TimelineFilesByIndex, 1)
	assert.Equal(t, "d2.jpg", out.TimelineFilesByIndex[1].Filename)
}
