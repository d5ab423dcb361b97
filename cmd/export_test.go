package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/clockin/internal/adapters/storage"
	"github.com/xvierd/clockin/internal/domain"
	"github.com/xvierd/clockin/internal/ports"
	"github.com/xvierd/clockin/internal/services"
)

func loadedTasks(t *testing.T) *services.TaskService {
	t.Helper()
	store, err := storage.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	tasks := services.NewTaskService(store.Tasks(), nil)
	_, err = tasks.Load(context.Background())
	require.NoError(t, err)
	return tasks
}

func TestExportCSV(t *testing.T) {
	now := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	var buf bytes.Buffer

	err := exportCSV(&buf, []domain.TimerRecord{sampleRecord(1, 1012, now)}, loadedTasks(t))
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "project_id", rows[0][0])
	assert.Equal(t, []string{
		"1", "Frontend Development", "1012", "Form Component", "90000",
		"90", "3700", "2026-05-06T07:06:39Z", "2026-05-06T07:08:09Z",
		"main", "0123456789abcdef",
	}, rows[1])
}

func TestExportMarkdown(t *testing.T) {
	now := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	var buf bytes.Buffer

	err := exportMarkdown(&buf, []domain.TimerRecord{sampleRecord(1, 1012, now), sampleRecord(2, 201, now)}, loadedTasks(t), now)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# clockin session export"))
	assert.Contains(t, out, "Generated: 2026-05-06 07:08")
	assert.Contains(t, out, "## Frontend Development / Form Component")
	assert.Contains(t, out, "## Backend Development / API Development")
	assert.Contains(t, out, "- Total: 01:01:40")
	assert.Contains(t, out, "- Git: main (0123456789abcdef)")
	assert.Contains(t, out, "**Tracked in total:** 02:03:20")
}

func TestExportMarkdown_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, exportMarkdown(&buf, nil, loadedTasks(t), time.Now()))
	assert.Contains(t, buf.String(), "_No sessions recorded._")
}

func TestExportCmd_ToFile(t *testing.T) {
	env := newTestEnv(t)
	seed(t, env, func(ctx context.Context, store ports.Storage) {
		require.NoError(t, store.Timers().SaveSession(ctx, sampleRecord(3, 301, time.Now())))
	})

	path := filepath.Join(t.TempDir(), "sessions.csv")
	_, err := run(t, env, "export", "--format", "csv", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "3,Mobile App,301,iOS App")
}

func TestExportCmd_UnknownFormat(t *testing.T) {
	env := newTestEnv(t)
	_, err := run(t, env, "export", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
