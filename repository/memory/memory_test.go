package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/backend/domain"
	"github.com/taskvault/backend/repository"
)

func TestUserRepositoryCreateAndLookup(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := &domain.User{Email: "a@x.com", FullName: "Alice Example", PasswordHash: "digest"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Email: "a@x.com", FullName: "Alice", PasswordHash: "x"}))
	err := repo.Create(ctx, &domain.User{Email: "a@x.com", FullName: "Clone", PasswordHash: "y"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserRepositoryEmailIsCaseSensitive(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Email: "a@x.com", FullName: "Alice", PasswordHash: "x"}))

	_, err := repo.GetByEmail(ctx, "A@X.COM")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepositoryMissing(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = repo.GetByEmail(ctx, "nope@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestTaskRepositoryRoundTrip(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Task{OwnerID: "owner-a", Title: "T1"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "T1", fetched.Title)

	tasks, err := repo.ListByOwner(ctx, repository.TaskFilter{OwnerID: "owner-a"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
}

func TestTaskRepositoryListFiltersOwner(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Task{OwnerID: "owner-a", Title: "mine"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Task{OwnerID: "owner-b", Title: "theirs"})
	require.NoError(t, err)

	tasks, err := repo.ListByOwner(ctx, repository.TaskFilter{OwnerID: "owner-a"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Title)

	tasks, err = repo.ListByOwner(ctx, repository.TaskFilter{OwnerID: "owner-c"})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskRepositoryUpdatePreservesOwner(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Task{OwnerID: "owner-a", Title: "T1"})
	require.NoError(t, err)

	edit := *created
	edit.Title = "renamed"
	edit.OwnerID = "owner-b" // ignored: ownership is fixed at creation
	require.NoError(t, repo.Update(ctx, &edit))

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", stored.Title)
	assert.Equal(t, "owner-a", stored.OwnerID)
}

func TestTaskRepositoryUpdateMissing(t *testing.T) {
	repo := NewTaskRepository()
	err := repo.Update(context.Background(), &domain.Task{ID: "nope", Title: "x"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
