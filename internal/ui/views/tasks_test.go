package views

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/store"
	"taskdeck/internal/ui/styles"
)

func testDeps() *Deps {
	return &Deps{
		API:      api.New("http://localhost:0", time.Second),
		Session:  store.NewSessionStore(nil),
		Prefs:    store.NewPrefStore(nil),
		Tasks:    store.NewTaskStore(),
		Comments: store.NewCommentStore(),
		Log:      zap.NewNop(),
	}
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runeMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeString(v *TaskListView, s string) {
	for _, r := range s {
		v.Update(runeMsg(r))
	}
}

// Search narrows the visible list on every keystroke. A cursor parked
// on a late row must not index past the end of the narrowed list when
// focus returns to it.
func TestCursorSurvivesSearchNarrowing(t *testing.T) {
	deps := testDeps()
	deps.Tasks.SetTasks([]models.Task{
		{ID: 1, Title: "pay rent"},
		{ID: 2, Title: "walk dog"},
		{ID: 3, Title: "game night"},
	})

	v := NewTaskListView(deps, styles.NewStyles(styles.Light))

	v.Update(keyMsg(tea.KeyDown))
	v.Update(keyMsg(tea.KeyDown))
	require.Equal(t, 2, v.cursor)

	// Narrow to a single match, then leave search without submitting
	v.Update(runeMsg('/'))
	typeString(v, "gam")
	require.Len(t, deps.Tasks.FilteredTasks(), 1)
	v.Update(keyMsg(tea.KeyEsc))

	// Selecting must land on the only visible task, not panic
	v.Update(keyMsg(tea.KeyEnter))
	require.Equal(t, 0, v.cursor)
	require.True(t, v.viewingTask)
	require.Equal(t, int64(3), v.viewTaskID)
}

func TestDeleteTargetsVisibleTaskAfterNarrowing(t *testing.T) {
	deps := testDeps()
	deps.Tasks.SetTasks([]models.Task{
		{ID: 1, Title: "pay rent"},
		{ID: 2, Title: "walk dog"},
	})

	v := NewTaskListView(deps, styles.NewStyles(styles.Light))
	v.Update(keyMsg(tea.KeyDown))

	v.Update(runeMsg('/'))
	typeString(v, "rent")
	v.Update(keyMsg(tea.KeyEsc))

	v.Update(runeMsg('d'))
	require.True(t, v.confirmingDelete)
	require.Equal(t, int64(1), v.deleteTargetID)
}

func TestStatsViewShowsPlaceholderUntilLoaded(t *testing.T) {
	deps := testDeps()
	v := NewStatsView(deps, styles.NewStyles(styles.Light))
	require.Contains(t, v.View(), "Loading")
}
