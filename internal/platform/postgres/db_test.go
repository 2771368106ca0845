package postgres_test

import (
	"io/fs"
	"testing"

	"github.com/phrazzld/vocab-srs/internal/platform/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	src := postgres.Migrations()
	assert.Equal(t, "postgres", string(src.Dialect))

	entries, err := fs.ReadDir(src.FS, ".")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"00001_create_word_lists.sql", "00002_create_schedule_states.sql"}, names)
}
