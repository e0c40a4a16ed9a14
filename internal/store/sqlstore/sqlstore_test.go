package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/taskflow-go/internal/model"
	"github.com/taskflow/taskflow-go/internal/store"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()

	s, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestUser(t *testing.T, s *SQLStore, email string) *model.User {
	t.Helper()

	user := &model.User{Email: email, PasswordHash: "$argon2id$stub"}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func newTestTodo(t *testing.T, s *SQLStore, owner *int64, title string, createdAt time.Time) *model.Todo {
	t.Helper()

	todo := &model.Todo{
		ID:        uuid.NewString(),
		OwnerID:   owner,
		Title:     title,
		CreatedAt: createdAt,
	}
	require.NoError(t, s.CreateTodo(context.Background(), todo))
	return todo
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("postgres", "whatever")
	assert.Error(t, err)
}

func TestCreateUser_AssignsIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)

	user := newTestUser(t, s, "a@example.com")

	assert.Positive(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := newTestUser(t, s, "a@example.com")

	dup := &model.User{Email: "a@example.com", PasswordHash: "other"}
	err := s.CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrDuplicateEmail)

	// The original row is untouched and no second row was created.
	got, err := s.UserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "$argon2id$stub", got.PasswordHash)
}

func TestUserByEmail_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UserByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserByID_Roundtrip(t *testing.T) {
	s := newTestStore(t)

	user := newTestUser(t, s, "a@example.com")

	got, err := s.UserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.CreatedAt.UnixMicro(), got.CreatedAt.UnixMicro())
}

func TestTodoByID_Roundtrip(t *testing.T) {
	s := newTestStore(t)

	user := newTestUser(t, s, "a@example.com")
	todo := newTestTodo(t, s, &user.ID, "buy milk", time.Now().UTC())

	got, err := s.TodoByID(context.Background(), todo.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.Title, got.Title)
	assert.False(t, got.Completed)
	require.NotNil(t, got.OwnerID)
	assert.Equal(t, user.ID, *got.OwnerID)
}

func TestTodoByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.TodoByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, store.ErrTodoNotFound)
}

func TestTodosByOwner_NewestFirst(t *testing.T) {
	s := newTestStore(t)

	user := newTestUser(t, s, "a@example.com")
	base := time.Now().UTC()
	newTestTodo(t, s, &user.ID, "oldest", base)
	newTestTodo(t, s, &user.ID, "middle", base.Add(time.Millisecond))
	newTestTodo(t, s, &user.ID, "newest", base.Add(2*time.Millisecond))

	todos, err := s.TodosByOwner(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, todos, 3)
	assert.Equal(t, "newest", todos[0].Title)
	assert.Equal(t, "middle", todos[1].Title)
	assert.Equal(t, "oldest", todos[2].Title)
}

func TestTodosByOwner_ExcludesForeignAndUnowned(t *testing.T) {
	s := newTestStore(t)

	alice := newTestUser(t, s, "alice@example.com")
	bob := newTestUser(t, s, "bob@example.com")

	now := time.Now().UTC()
	newTestTodo(t, s, &alice.ID, "alice's", now)
	newTestTodo(t, s, &bob.ID, "bob's", now)
	newTestTodo(t, s, nil, "unowned", now)

	todos, err := s.TodosByOwner(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "alice's", todos[0].Title)
}

func TestFlipCompleted_Flips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, s, "a@example.com")
	todo := newTestTodo(t, s, &user.ID, "buy milk", time.Now().UTC())

	flipped, err := s.FlipCompleted(ctx, todo.ID, false)
	require.NoError(t, err)
	assert.True(t, flipped)

	got, err := s.TodoByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestFlipCompleted_StaleExpectationIsNoOp(t *testing.T) {
	// Two requests both observed completed=false. The first flip wins; the
	// second must not flip the value back.
	s := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, s, "a@example.com")
	todo := newTestTodo(t, s, &user.ID, "buy milk", time.Now().UTC())

	flipped, err := s.FlipCompleted(ctx, todo.ID, false)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = s.FlipCompleted(ctx, todo.ID, false)
	require.NoError(t, err)
	assert.False(t, flipped)

	got, err := s.TodoByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed, "stale write must not revert the newer state")
}

func TestFlipCompleted_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.FlipCompleted(context.Background(), uuid.NewString(), false)
	assert.ErrorIs(t, err, store.ErrTodoNotFound)
}

func TestDeleteTodo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, s, "a@example.com")
	todo := newTestTodo(t, s, &user.ID, "buy milk", time.Now().UTC())

	require.NoError(t, s.DeleteTodo(ctx, todo.ID))

	_, err := s.TodoByID(ctx, todo.ID)
	assert.ErrorIs(t, err, store.ErrTodoNotFound)

	assert.ErrorIs(t, s.DeleteTodo(ctx, todo.ID), store.ErrTodoNotFound)
}

func TestCreateTodos_Batch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, s, "a@example.com")
	now := time.Now().UTC()

	batch := []*model.Todo{
		{ID: uuid.NewString(), OwnerID: &user.ID, Title: "A", CreatedAt: now},
		{ID: uuid.NewString(), OwnerID: &user.ID, Title: "B", Completed: true, CreatedAt: now.Add(time.Microsecond)},
	}
	require.NoError(t, s.CreateTodos(ctx, batch))

	todos, err := s.TodosByOwner(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "B", todos[0].Title)
	assert.True(t, todos[0].Completed)
	assert.Equal(t, "A", todos[1].Title)
	assert.False(t, todos[1].Completed)
}

func TestCreateTodos_AllOrNone(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, s, "a@example.com")
	now := time.Now().UTC()

	id := uuid.NewString()
	batch := []*model.Todo{
		{ID: id, OwnerID: &user.ID, Title: "A", CreatedAt: now},
		{ID: id, OwnerID: &user.ID, Title: "B", CreatedAt: now}, // duplicate id forces a failure
	}
	require.Error(t, s.CreateTodos(ctx, batch))

	todos, err := s.TodosByOwner(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, todos, "failed batch must not leave partial rows")
}

func TestCreateTodos_EmptyBatch(t *testing.T) {
	s := newTestStore(t)

	assert.NoError(t, s.CreateTodos(context.Background(), nil))
}
