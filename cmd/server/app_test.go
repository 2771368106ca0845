package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/api"
	"github.com/phrazzld/vocab-srs/internal/config"
	"github.com/phrazzld/vocab-srs/internal/platform/migrations"
	"github.com/phrazzld/vocab-srs/internal/platform/sqlite"
	"github.com/phrazzld/vocab-srs/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			LogLevel:        "error",
			ShutdownTimeout: 5 * time.Second,
			RateLimitRPS:    100,
			RateLimitBurst:  100,
		},
		Database: config.DatabaseConfig{
			Driver: driverSQLite,
			URL:    filepath.Join(t.TempDir(), "vocab.db"),
		},
		Auth: config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60},
		Review: config.ReviewConfig{
			MasteryThreshold:     5,
			DailyGoal:            20,
			DueLimit:             20,
			MinEaseFactor:        1.3,
			InitialEaseFactor:    2.5,
			PersistWorkers:       1,
			PersistQueueSize:     16,
			PersistTimeout:       time.Second,
			SessionIdleTimeout:   time.Minute,
			SweepIntervalMinutes: 1,
		},
	}
}

// writeConfigFile stores cfg's essentials as YAML for the --config flag.
func writeConfigFile(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := fmt.Sprintf("server:\n  log_level: error\n"+
		"database:\n  driver: %s\n  url: %q\n"+
		"auth:\n  jwt_secret: %q\n",
		cfg.Database.Driver, cfg.Database.URL, cfg.Auth.JWTSecret)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenDatabase_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := openDatabase(context.Background(), config.DatabaseConfig{Driver: "mysql", URL: "x"}, discardLogger())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestNewApplication_MigratesDatabase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig(t)

	app, err := newApplication(ctx, cfg, discardLogger())
	require.NoError(t, err)

	runner, err := app.db.migrator(discardLogger())
	require.NoError(t, err)
	version, err := runner.Version(ctx)
	require.NoError(t, err)
	assert.Positive(t, version)

	require.NoError(t, app.cleanup(ctx))
}

func TestServe_ReviewRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	app, err := newApplication(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln) }()

	base := "http://" + ln.Addr().String()
	userID := uuid.New()
	token, err := app.tokens.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	call := func(method, path, body string, out any) int {
		t.Helper()
		req, err := http.NewRequest(method, base+path, bytes.NewBufferString(body))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		if out != nil {
			require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
		}
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, call(http.MethodGet, "/health", "", nil))

	var created api.CreateListResponse
	require.Equal(t, http.StatusCreated, call(http.MethodPost, "/api/lists",
		`{"name":"French","words":[{"term":"chat","definition":"cat"}]}`, &created))

	var started api.SessionResponse
	require.Equal(t, http.StatusCreated, call(http.MethodPost, "/api/sessions",
		fmt.Sprintf(`{"list_id":%q,"mode":"quiz"}`, created.List.ID), &started))
	require.NotNil(t, started.Current)
	assert.Equal(t, "chat", started.Current.Term)

	var submitted api.SubmitResponse
	require.Equal(t, http.StatusOK, call(http.MethodPost,
		"/api/sessions/"+started.ID.String()+"/judgments?wait=true", `{"knew":true}`, &submitted))
	assert.True(t, submitted.Completed)
	assert.Equal(t, api.WriteStored, submitted.Write)
	assert.Equal(t, 1, submitted.Schedule.Interval)

	var overview map[string]any
	assert.Equal(t, http.StatusOK, call(http.MethodGet, "/api/progress", "", &overview))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestTokenCommand(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	userID := uuid.New()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"token", "--config", writeConfigFile(t, cfg), "--user", userID.String()})
	require.NoError(t, root.Execute())

	tokens, err := auth.NewJWTService(cfg.Auth)
	require.NoError(t, err)
	claims, err := tokens.ValidateToken(context.Background(), string(bytes.TrimSpace(out.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestTokenCommand_RejectsBadUser(t *testing.T) {
	t.Parallel()

	for _, user := range []string{"not-a-uuid", uuid.Nil.String()} {
		root := newRootCmd()
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		root.SetArgs([]string{"token", "--user", user})
		assert.ErrorContains(t, root.Execute(), "--user must be a non-nil UUID", user)
	}
}

func TestMigrateCommand(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	path := writeConfigFile(t, cfg)

	run := func(args ...string) error {
		root := newRootCmd()
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		root.SetArgs(append([]string{"migrate", "--config", path}, args...))
		return root.Execute()
	}

	require.NoError(t, run())
	require.NoError(t, run(migrations.CommandVersion))
	require.NoError(t, run(migrations.CommandStatus))
	assert.ErrorIs(t, run("sideways"), migrations.ErrUnknownCommand)
}

func TestImportCommand(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	userID := uuid.New()
	file := filepath.Join(t.TempDir(), "german.csv")
	require.NoError(t, os.WriteFile(file, []byte("word,translation\nHund,dog\nKatze,\nlaufen,to run\n"), 0o600))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"import", file, "--config", writeConfigFile(t, cfg), "--user", userID.String()})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), `imported "german"`)
	assert.Contains(t, out.String(), "2 words")
	assert.Contains(t, out.String(), "skipped row 3")

	db, err := sqlite.Open(context.Background(), cfg.Database.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	lists, err := sqlite.NewSQLiteListStore(db, discardLogger()).ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "german", lists[0].Name)

	items, err := sqlite.NewSQLiteProgressStore(db, discardLogger()).
		FetchReviewItems(context.Background(), userID, lists[0].ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestImportCommand_UnsupportedFile(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"import", "words.txt", "--user", uuid.NewString()})
	assert.ErrorContains(t, root.Execute(), "unsupported")
}
