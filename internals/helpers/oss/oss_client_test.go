package oss

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeyFromPublicURL(t *testing.T) {
	t.Setenv("ALI_OSS_PUBLIC_BASE", "")

	key, err := ExtractKeyFromPublicURL("https://bucket.oss-ap-southeast-5.aliyuncs.com/program-images/bali_20260601_a1b2c3.jpg")
	require.NoError(t, err)
	assert.Equal(t, "program-images/bali_20260601_a1b2c3.jpg", key)

	_, err = ExtractKeyFromPublicURL("")
	assert.Error(t, err)

	_, err = ExtractKeyFromPublicURL("https://no-path-here")
	assert.Error(t, err)
}

func TestExtractKeyHonorsPublicBase(t *testing.T) {
	t.Setenv("ALI_OSS_PUBLIC_BASE", "https://cdn.travelku.id")

	key, err := ExtractKeyFromPublicURL("https://cdn.travelku.id/timeline-images/day1_20260601_ffee00.webp")
	require.NoError(t, err)
	assert.Equal(t, "timeline-images/day1_20260601_ffee00.webp", key)
}

func TestPublicURLRoundTrip(t *testing.T) {
	t.Setenv("ALI_OSS_PUBLIC_BASE", "")
	s := &OSSService{Endpoint: "https://oss-ap-southeast-5.aliyuncs.com", BucketName: "travelku"}

	url := s.PublicURL("program-images/komodo_20260601_a1b2c3.jpg")
	assert.Equal(t, "https://travelku.oss-ap-southeast-5.aliyuncs.com/program-images/komodo_20260601_a1b2c3.jpg", url)

	key, err := ExtractKeyFromPublicURL(url)
	require.NoError(t, err)
	assert.Equal(t, "program-images/komodo_20260601_a1b2c3.jpg", key)

	assert.Equal(t, "", s.PublicURL(""))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "komodo-island", slugify("Komodo Island"))
	assert.Equal(t, "trip-2026", slugify("Trip_2026!"))
	assert.Equal(t, "file", slugify("???"))
	assert.Equal(t, "file", slugify(""))
}

func TestBuildObjectKeyShape(t *testing.T) {
	s := &OSSService{Prefix: "uploads"}
	key := s.buildObjectKey("Program Images", "Pantai Kuta.JPG")

	// uploads/program-images/pantai-kuta_<ts>_<rand>.jpg
	re := regexp.MustCompile(`^uploads/program-images/pantai-kuta_\d{8}_\d{6}_[0-9a-f]{6}\.jpg$`)
	assert.Regexp(t, re, key)
}

func TestBuildObjectKeyWithoutPrefixOrExt(t *testing.T) {
	s := &OSSService{}
	key := s.buildObjectKey("timeline-images", "day one")
	re := regexp.MustCompile(`^timeline-images/day-one_\d{8}_\d{6}_[0-9a-f]{6}$`)
	assert.Regexp(t, re, key)
}

func TestMaxUploadBytes(t *testing.T) {
	t.Setenv("UPLOAD_MAX_BYTES", "")
	assert.Equal(t, int64(5*1024*1024), MaxUploadBytes())

	t.Setenv("UPLOAD_MAX_BYTES", "1048576")
	assert.Equal(t, int64(1048576), MaxUploadBytes())
}
