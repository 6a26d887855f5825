package roster

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arnavshah/duty-roster-go/pkg/config"
	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/arnavshah/duty-roster-go/pkg/scheduler"
)

type recordingObserver struct {
	generated int
	swapErrs  []error
}

func (o *recordingObserver) Generated(r *models.Roster, elapsed time.Duration) { o.generated++ }
func (o *recordingObserver) Swapped(err error)                                 { o.swapErrs = append(o.swapErrs, err) }

func testStore() *Store {
	cfg := &config.Config{
		Campuses: []config.Campus{{
			Name:      "1",
			Locations: []config.Location{{Name: "L1", Required: 1}, {Name: "L2", Required: 1}},
		}},
		WildcardCampus:      "*",
		UnspecifiedLocation: "unspecified",
		WorkingDays:         []string{"MO", "TU", "WE", "TH", "FR"},
	}
	return NewStore(cfg, zap.NewNop())
}

func testStaff() []models.Staff {
	return []models.Staff{
		{Name: "A", Campus: "1"},
		{Name: "B", Campus: "1"},
		{Name: "C", Campus: "*"},
	}
}

func day(s string) time.Time {
	d, _ := config.ParseDate(s)
	return d
}

func seed(n int64) GenerateOptions {
	return GenerateOptions{Seed: &n}
}

func TestStore_Lifecycle(t *testing.T) {
	store := testStore()
	obs := &recordingObserver{}
	store.SetObserver(obs)
	assert.Equal(t, StateEmpty, store.State())

	_, err := store.Current()
	assert.ErrorIs(t, err, ErrNoRoster)
	_, err = store.Swap(0, 1)
	assert.ErrorIs(t, err, ErrNoRoster)

	first, err := store.Generate(testStaff(), day("2025-10-01"), day("2025-10-02"), seed(1))
	require.NoError(t, err)
	assert.Equal(t, StateCreated, first.State)
	assert.Equal(t, uint64(1), first.Version)
	assert.NotEmpty(t, first.RunID)
	assert.Len(t, first.Assignments, 4)
	assert.Equal(t, []string{"2025-10-01", "2025-10-02"}, first.WorkingDates)

	second, err := store.Generate(testStaff(), day("2025-10-01"), day("2025-10-01"), seed(2))
	require.NoError(t, err)
	assert.Equal(t, StateReplaced, second.State)
	assert.Equal(t, uint64(2), second.Version)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Len(t, second.Assignments, 2)

	swapped, err := store.Swap(0, 1)
	require.NoError(t, err)
	assert.Equal(t, StateMutated, swapped.State)
	assert.Equal(t, uint64(3), swapped.Version)
	assert.Equal(t, second.Assignments[0].StaffName, swapped.Assignments[1].StaffName)
	assert.Equal(t, second.Assignments[1].StaffName, swapped.Assignments[0].StaffName)
	// Swaps do not touch the generation counts
	assert.Equal(t, second.WorkCount, swapped.WorkCount)

	assert.Equal(t, 2, obs.generated)
	assert.Equal(t, []error{nil}, obs.swapErrs)
}

func TestStore_FailedGenerationKeepsRoster(t *testing.T) {
	store := testStore()
	before, err := store.Generate(testStaff(), day("2025-10-01"), day("2025-10-01"), seed(1))
	require.NoError(t, err)

	_, err = store.Generate(testStaff(), day("2025-10-02"), day("2025-10-01"), seed(1))
	assert.ErrorIs(t, err, scheduler.ErrInvalidRange)

	after, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, StateCreated, store.State())
}

func TestStore_RejectedSwapKeepsVersion(t *testing.T) {
	store := testStore()
	_, err := store.Generate(testStaff(), day("2025-10-01"), day("2025-10-01"), seed(1))
	require.NoError(t, err)

	_, err = store.Swap(1, 1)
	assert.ErrorIs(t, err, scheduler.ErrSelfSwap)

	current, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), current.Version)
	assert.Equal(t, StateCreated, current.State)
}

func TestStore_CurrentIsACopy(t *testing.T) {
	store := testStore()
	_, err := store.Generate(testStaff(), day("2025-10-01"), day("2025-10-01"), seed(1))
	require.NoError(t, err)

	got, err := store.Current()
	require.NoError(t, err)
	got.Assignments[0].StaffName = "tampered"
	got.WorkCount["A"] = 100

	again, err := store.Current()
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", again.Assignments[0].StaffName)
	assert.NotEqual(t, 100, again.WorkCount["A"])
}

func TestStore_ConcurrentMutations(t *testing.T) {
	store := testStore()
	_, err := store.Generate(testStaff(), day("2025-09-01"), day("2025-09-30"), seed(1))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int64) {
			defer wg.Done()
			_, _ = store.Generate(testStaff(), day("2025-09-01"), day("2025-09-30"), seed(n))
		}(int64(i))
		go func() {
			defer wg.Done()
			_, _ = store.Swap(0, 1)
		}()
	}
	wg.Wait()

	current, err := store.Current()
	require.NoError(t, err)
	total := 0
	for _, c := range current.WorkCount {
		total += c
	}
	assert.Equal(t, len(current.Assignments), total)
	assert.Equal(t, uint64(17), current.Version)
}
