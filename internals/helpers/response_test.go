package helper

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPaginationFromPage(t *testing.T) {
	p := BuildPaginationFromPage(45, 2, 20)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = BuildPaginationFromPage(0, 1, 20)
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
}

func TestResolvePagingClampsPerPage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		pg := ResolvePaging(c, 20, 50)
		return c.JSON(pg)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/?page=3&per_page=500", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var pg Paging
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pg))
	assert.Equal(t, 3, pg.Page)
	assert.Equal(t, 50, pg.PerPage)
	assert.Equal(t, 100, pg.Offset)
}

func TestJsonErrorShape(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return JsonError(c, fiber.StatusNotFound, "Trip not found")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "Trip not found", body.Message)
	assert.Equal(t, "NOT_FOUND", body.ErrorCode)
}

func TestMethodNotAllowedSetsAllowHeader(t *testing.T) {
	app := fiber.New()
	g := app.Group("/trips")
	g.Get("/", func(c *fiber.Ctx) error { return JsonOK(c, "", nil) })
	g.All("/", MethodNotAllowed("GET, POST"))

	resp, err := app.Test(httptest.NewRequest("PATCH", "/trips/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "GET, POST", resp.Header.Get(fiber.HeaderAllow))

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "METHOD_NOT_ALLOWED")
}
