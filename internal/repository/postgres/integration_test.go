//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pontoamd/ponto-server/internal/model"
	repo "github.com/pontoamd/ponto-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "ponto_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/ponto_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	users := repo.NewUserRepository(conn)
	events := repo.NewEventRepository(conn)

	alice := model.User{
		ID:           uuid.New(),
		Handle:       "11122233344",
		PasswordHash: []byte("$2a$10$fakehash"),
		DisplayName:  "Alice Martins",
		Role:         model.RoleEmployee,
		CreatedAt:    time.Now().UTC(),
	}

	saved, err := users.Create(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, saved.ID)
	assert.Equal(t, alice.Handle, saved.Handle)
	assert.Equal(t, model.RoleEmployee, saved.Role)

	t.Run("duplicate handle is rejected", func(t *testing.T) {
		dup := alice
		dup.ID = uuid.New()
		_, err := users.Create(ctx, dup)
		require.ErrorIs(t, err, model.ErrDuplicateHandle)
	})

	t.Run("get by handle and id", func(t *testing.T) {
		byHandle, err := users.GetByHandle(ctx, alice.Handle)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byHandle.ID)

		byID, err := users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.Handle, byID.Handle)

		_, err = users.GetByHandle(ctx, "00000000000")
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("list is ordered by display name", func(t *testing.T) {
		bruno := alice
		bruno.ID = uuid.New()
		bruno.Handle = "55566677788"
		bruno.DisplayName = "Bruno Costa"
		_, err := users.Create(ctx, bruno)
		require.NoError(t, err)

		list, err := users.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Alice Martins", list[0].DisplayName)
		assert.Equal(t, "Bruno Costa", list[1].DisplayName)
	})

	t.Run("update role", func(t *testing.T) {
		require.NoError(t, users.UpdateRole(ctx, alice.ID, model.RoleAdmin))

		got, err := users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, got.Role)

		err = users.UpdateRole(ctx, uuid.New(), model.RoleAdmin)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	now := time.Now().UnixMilli()
	event := model.AttendanceEvent{
		ID:          uuid.New(),
		UserID:      alice.ID,
		Timestamp:   now,
		Kind:        model.KindIn,
		EvidenceKey: fmt.Sprintf("user-%s/event-%s.jpg", alice.ID, uuid.New()),
		Latitude:    -23.5505,
		Longitude:   -46.6333,
	}

	t.Run("event round trip", func(t *testing.T) {
		saved, err := events.Create(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, event, saved)

		list, err := events.GetByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, event, list[0])
	})

	t.Run("range query is inclusive and descending", func(t *testing.T) {
		later := event
		later.ID = uuid.New()
		later.Timestamp = now + 1000
		later.Kind = model.KindOut
		_, err := events.Create(ctx, later)
		require.NoError(t, err)

		list, err := events.GetByRange(ctx, now, now+1000)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, later.ID, list[0].ID)
		assert.Equal(t, event.ID, list[1].ID)

		list, err = events.GetByRange(ctx, now, now+999)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, event.ID, list[0].ID)
	})

	t.Run("update timestamp and kind only", func(t *testing.T) {
		require.NoError(t, events.UpdateTimestampKind(ctx, event.ID, now+5000, model.KindOut))

		got, err := events.GetByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, now+5000, got.Timestamp)
		assert.Equal(t, model.KindOut, got.Kind)
		assert.Equal(t, event.EvidenceKey, got.EvidenceKey)
		assert.Equal(t, event.Latitude, got.Latitude)
		assert.Equal(t, event.Longitude, got.Longitude)

		err = events.UpdateTimestampKind(ctx, uuid.New(), now, model.KindIn)
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}
