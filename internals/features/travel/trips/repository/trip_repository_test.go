package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// dryRunRepo builds a repository over a dry-run gorm session and captures
// every generated query, so the WHERE shape can be asserted without a server.
func dryRunRepo(t *testing.T) (*TripRepository, *[]string) {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	var captured []string
	err = db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		captured = append(captured, tx.Statement.SQL.String())
	})
	require.NoError(t, err)

	return NewTripRepository(db), &captured
}

func TestListPublicFiltersHiddenTrips(t *testing.T) {
	repo, captured := dryRunRepo(t)

	_, _, err := repo.List(context.Background(), ListFilter{DisplayOnly: true, Limit: 20})
	require.NoError(t, err)

	sql := strings.Join(*captured, "\n")
	require.NotEmpty(t, sql)
	assert.Contains(t, sql, "trip_display")
}

func TestListAdminSeesHiddenTrips(t *testing.T) {
	repo, captured := dryRunRepo(t)

	_, _, err := repo.List(context.Background(), ListFilter{Limit: 20})
	require.NoError(t, err)

	sql := strings.Join(*captured, "\n")
	require.NotEmpty(t, sql)
	assert.NotContains(t, sql, "trip_display")
}

func TestListDestinationFilterIsCaseInsensitive(t *testing.T) {
	repo, captured := dryRunRepo(t)

	_, _, err := repo.List(context.Background(), ListFilter{Destination: "bali", Limit: 20})
	require.NoError(t, err)

	sql := strings.Join(*captured, "\n")
	assert.Contains(t, sql, "ILIKE")
}

func TestGetByIDBypassesDisplayFilter(t *testing.T) {
	repo, captured := dryRunRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)

	sql := strings.Join(*captured, "\n")
	require.NotEmpty(t, sql)
	assert.Contains(t, sql, "trip_id")
	assert.NotContains(t, sql, "trip_display")
}
