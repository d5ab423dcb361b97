package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/clockin/internal/domain"
)

func TestListCmd(t *testing.T) {
	t.Run("list command structure", func(t *testing.T) {
		if listCmd.Use != "list" {
			t.Errorf("listCmd.Use = %q, want %q", listCmd.Use, "list")
		}
	})

	for _, tt := range []struct{ name, short string }{
		{"level", "l"},
		{"parent", "p"},
		{"search", "s"},
	} {
		t.Run("has "+tt.name+" flag", func(t *testing.T) {
			flag := listCmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("listCmd should have --%s flag", tt.name)
			}
			if flag.Shorthand != tt.short {
				t.Errorf("%s flag shorthand = %q, want %q", tt.name, flag.Shorthand, tt.short)
			}
		})
	}
}

func TestListCmd_Tree(t *testing.T) {
	env := newTestEnv(t)

	out, err := run(t, env, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Frontend Development (ID: 1)")
	assert.Contains(t, out, "└── ")
	assert.Contains(t, out, "Client-side Validation (ID: 101221)")

	// Projects are unindented, deeper levels are nested under them.
	lines := strings.Split(out, "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], getStatusIcon(domain.StatusInProgress)+" Frontend Development"))
	assert.Less(t, strings.Index(out, "UI Components"), strings.Index(out, "Backend Development"))
}

func TestListCmd_Filters(t *testing.T) {
	env := newTestEnv(t)

	out, err := run(t, env, "list", "--parent", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "UI Components")
	assert.Contains(t, out, "Authentication")
	assert.NotContains(t, out, "Frontend Development")

	out, err = run(t, env, "list", "--level", "subaction")
	require.NoError(t, err)
	assert.Contains(t, out, "Client-side Validation")
	assert.Contains(t, out, "Server-side Validation")
	assert.NotContains(t, out, "Form Component")

	_, err = run(t, env, "list", "--parent", "999")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestListCmd_SearchJSON(t *testing.T) {
	env := newTestEnv(t)

	out, err := run(t, env, "--json", "list", "--search", "validation")
	require.NoError(t, err)

	var got struct {
		Tasks []domain.Task `json:"tasks"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, len(got.Tasks), got.Count)
	require.GreaterOrEqual(t, got.Count, 3)

	var names []string
	for _, task := range got.Tasks {
		names = append(names, task.Name)
	}
	assert.Contains(t, names, "Add Form Validation")
	assert.Contains(t, names, "Client-side Validation")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Level
	}{
		{"project", domain.LevelProject},
		{"Task", domain.LevelTask},
		{" SUBTASK ", domain.LevelSubtask},
		{"3", domain.LevelAction},
		{"subaction", domain.LevelSubaction},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if err != nil {
			t.Errorf("parseLevel(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := parseLevel("epic"); !errors.Is(err, domain.ErrInvalidLevel) {
		t.Errorf("parseLevel(epic) error = %v, want ErrInvalidLevel", err)
	}
}

// TestGetStatusIcon tests the status icon helper
func TestGetStatusIcon(t *testing.T) {
	seen := map[string]domain.TaskStatus{}
	for _, status := range domain.ValidStatuses {
		icon := getStatusIcon(status)
		if prev, dup := seen[icon]; dup {
			t.Errorf("getStatusIcon(%q) = %q, same as %q", status, icon, prev)
		}
		seen[icon] = status
	}
	if got := getStatusIcon(domain.TaskStatus("unknown")); got != "•" {
		t.Errorf("getStatusIcon(unknown) = %q, want %q", got, "•")
	}
}
