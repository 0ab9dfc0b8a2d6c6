package credstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/uecsr/portal/internal/config"
	"github.com/uecsr/portal/internal/models"
)

var testUser = &models.Usuario{ID: 1, Nombres: "Ana", Apellidos: "Ríos", Email: "a@x.com", Rol: models.RolAdmin}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// exerciseStore runs the shared contract against any backend.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	assert.True(t, s.Load(ctx).Empty(), "fresh store should be empty")

	require.NoError(t, s.SaveToken(ctx, "tok123"))
	got := s.Load(ctx)
	assert.Equal(t, "tok123", got.Token)
	assert.Nil(t, got.User, "entries are independent")

	require.NoError(t, s.SaveUser(ctx, testUser))
	got = s.Load(ctx)
	assert.Equal(t, "tok123", got.Token)
	require.NotNil(t, got.User)
	assert.Equal(t, *testUser, *got.User)

	require.NoError(t, s.Clear(ctx))
	assert.True(t, s.Load(ctx).Empty(), "Clear removes both entries")

	// clearing an empty store is fine
	require.NoError(t, s.Clear(ctx))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())

	var zero MemoryStore
	require.NoError(t, zero.SaveToken(context.Background(), "t"))
	assert.Equal(t, "t", zero.Load(context.Background()).Token)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	s := NewFileStore(path)
	exerciseStore(t, s)

	require.NoError(t, s.SaveToken(context.Background(), "persisted"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// a second instance sees what the first one wrote
	assert.Equal(t, "persisted", NewFileStore(path).Load(context.Background()).Token)
}

func TestFileStore_Corrupted(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	t.Run("unparseable file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		s := NewFileStore(path)
		assert.True(t, s.Load(ctx).Empty())

		// the next write replaces the corrupted document
		require.NoError(t, s.SaveToken(ctx, "fresh"))
		assert.Equal(t, "fresh", s.Load(ctx).Token)
	})

	t.Run("corrupted user entry", func(t *testing.T) {
		path := filepath.Join(dir, "user.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"auth_token":"tok","auth_user":"{oops"}`), 0o600))
		got := NewFileStore(path).Load(ctx)
		assert.Equal(t, "tok", got.Token)
		assert.Nil(t, got.User)
	})

	t.Run("missing file", func(t *testing.T) {
		assert.True(t, NewFileStore(filepath.Join(dir, "absent.json")).Load(ctx).Empty())
	})
}

func TestRedisStore(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisStore(client, "portal:test")
	exerciseStore(t, s)

	require.NoError(t, s.SaveToken(context.Background(), "tok"))
	v, err := mr.Get("portal:test:auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", v)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	s := NewRedisStore(client, "p")
	mr.Close()

	assert.True(t, s.Load(context.Background()).Empty())
	assert.Error(t, s.SaveToken(context.Background(), "tok"))
}

func setupPostgresMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewPostgresStore(conn, "default"), mock
}

func TestPostgresStore_Load(t *testing.T) {
	s, mock := setupPostgresMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, value FROM credentials WHERE profile = $1`)).
		WithArgs("default").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow(TokenKey, "tok").
			AddRow(UserKey, `{"id":1,"nombres":"Ana","apellidos":"Ríos","email":"a@x.com","rol":"ADMIN"}`))

	got := s.Load(context.Background())
	assert.Equal(t, "tok", got.Token)
	require.NotNil(t, got.User)
	assert.Equal(t, *testUser, *got.User)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LoadError(t *testing.T) {
	s, mock := setupPostgresMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, value FROM credentials`)).
		WillReturnError(errors.New("connection reset"))

	assert.True(t, s.Load(context.Background()).Empty())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveAndClear(t *testing.T) {
	s, mock := setupPostgresMock(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO credentials (profile, key, value, updated_at)`)).
		WithArgs("default", TokenKey, "tok").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO credentials (profile, key, value, updated_at)`)).
		WithArgs("default", UserKey, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM credentials WHERE profile = $1 AND key = ANY($2)`)).
		WithArgs("default", pq.Array([]string{TokenKey, UserKey})).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, s.SaveToken(ctx, "tok"))
	require.NoError(t, s.SaveUser(ctx, testUser))
	require.NoError(t, s.Clear(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveError(t *testing.T) {
	s, mock := setupPostgresMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO credentials`)).
		WillReturnError(errors.New("disk full"))

	err := s.SaveToken(context.Background(), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save auth_token")
}

// failingStore accepts reads and rejects every write.
type failingStore struct {
	creds Credentials
}

func (f *failingStore) Load(context.Context) Credentials                 { return f.creds }
func (f *failingStore) SaveToken(context.Context, string) error          { return errors.New("read-only") }
func (f *failingStore) SaveUser(context.Context, *models.Usuario) error  { return errors.New("read-only") }
func (f *failingStore) Clear(context.Context) error                      { return errors.New("read-only") }

func TestFallback_DegradesToMemory(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	primary := &failingStore{creds: Credentials{User: testUser}}
	f := NewFallback(primary, zap.New(core))
	ctx := context.Background()

	assert.False(t, f.Degraded())
	require.NoError(t, f.SaveToken(ctx, "tok"))
	assert.True(t, f.Degraded())

	got := f.Load(ctx)
	assert.Equal(t, "tok", got.Token)
	require.NotNil(t, got.User, "existing entries are carried over")
	assert.Equal(t, testUser.Email, got.User.Email)

	require.NoError(t, f.Clear(ctx))
	assert.True(t, f.Load(ctx).Empty())

	assert.Equal(t, 1, logs.FilterMessage("credential store unavailable, keeping session in memory only").Len())
}

func TestFallback_PassThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	f := NewFallback(NewFileStore(path), nil)
	exerciseStore(t, f)
	assert.False(t, f.Degraded())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, closeFn, err := Open(ctx, &config.Options{Store: config.StoreMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
	require.NoError(t, closeFn())

	core, logs := observer.New(zapcore.DebugLevel)
	path := filepath.Join(t.TempDir(), "c.json")
	s, closeFn, err = Open(ctx, &config.Options{Store: config.StoreFile, StorePath: path}, zap.New(core))
	require.NoError(t, err)
	assert.IsType(t, &Fallback{}, s)
	require.NoError(t, closeFn())
	entries := logs.FilterMessage("using file credential store").All()
	require.Len(t, entries, 1)
	assert.Equal(t, path, entries[0].ContextMap()["path"])

	mr, _ := newTestRedis(t)
	s, closeFn, err = Open(ctx, &config.Options{Store: config.StoreRedis, RedisAddr: mr.Addr(), Profile: "kiosk"}, nil)
	require.NoError(t, err)
	require.NoError(t, s.SaveToken(ctx, "tok"))
	v, err := mr.Get("portal:kiosk:auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", v)
	require.NoError(t, closeFn())

	_, _, err = Open(ctx, &config.Options{Store: "floppy"}, nil)
	assert.Error(t, err)
}
