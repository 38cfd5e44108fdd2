package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-api/models"
)

// Requires a running MongoDB, e.g. MONGODB_TEST_URI=mongodb://localhost:27017
func newMongoTestDatabase(t *testing.T) Database {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := ConnectMongo(ctx, uri)
	require.NoError(t, err)

	dbName := "portfolio_test_" + uuid.NewString()[:8]
	require.NoError(t, EnsureMongoIndexes(ctx, client, dbName))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.Database(dbName).Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return NewMongo(client, dbName)
}

func TestMongoProjects(t *testing.T) {
	db := newMongoTestDatabase(t)
	ctx := context.Background()
	repo := db.ProjectRepo()

	base := time.Now().UTC().Truncate(time.Millisecond)
	first := &models.Project{Title: "A", Category: "web", Img: "/uploads/projects/a.png", Client: map[string]any{"name": "Acme"}, CreatedAt: base, UpdatedAt: base}
	require.NoError(t, repo.Add(ctx, first))
	assert.Equal(t, 1, first.Seq)

	second := &models.Project{Title: "B", Category: "web", Img: "/uploads/projects/b.png", CreatedAt: base.Add(time.Second), UpdatedAt: base}
	require.NoError(t, repo.Add(ctx, second))
	assert.Equal(t, 2, second.Seq)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "B", all[0].Title)

	got, err := repo.FindBySeq(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.Client.(map[string]any)["name"])

	later := base.Add(time.Hour)
	updated, err := repo.Update(ctx, 1, models.ProjectInput{Title: "A2", Category: "web", Img: "/uploads/projects/a.png"}, later)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "A2", updated.Title)
	assert.True(t, updated.CreatedAt.Equal(base))
	assert.True(t, updated.UpdatedAt.Equal(later))

	ok, err := repo.DeleteBySeq(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	missing, err := repo.FindBySeq(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMongoFeedback(t *testing.T) {
	db := newMongoTestDatabase(t)
	ctx := context.Background()
	repo := db.FeedbackRepo()

	f := &models.Feedback{Name: "Ada", Email: "ada@example.com", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Add(ctx, f))

	for i := 0; i < 2; i++ {
		approved, err := repo.Approve(ctx, f.ID)
		require.NoError(t, err)
		require.NotNil(t, approved)
		assert.True(t, approved.Approved)
	}

	n, err := repo.Delete(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	missing, err := repo.Approve(ctx, f.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
