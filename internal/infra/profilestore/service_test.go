package profilestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService_LoadsStoredProfile(t *testing.T) {
	stored := &domain.Profile{DeepWorkSlots: []int{9, 10}, ShallowWorkSlots: []int{}}
	svc := NewService(&testutil.MockProfileStore{Profile: stored}, nil)

	assert.Equal(t, []int{9, 10}, svc.Current().DeepWorkSlots)
}

func TestNewService_LoadErrorKeepsEmpty(t *testing.T) {
	logger := &testutil.MockLogger{}
	svc := NewService(&testutil.MockProfileStore{LoadErr: errors.New("permission denied")}, logger)

	require.NotNil(t, svc.Current())
	assert.True(t, svc.Current().IsEmpty())
	assert.True(t, logger.Has("warn", "initial load failed"))
}

func TestService_Replace(t *testing.T) {
	store := &testutil.MockProfileStore{}
	svc := NewService(store, nil)
	next := &domain.Profile{DeepWorkSlots: []int{33}, ShallowWorkSlots: []int{}}

	require.NoError(t, svc.Replace(next))

	assert.Equal(t, 1, store.Saves)
	assert.Equal(t, []int{33}, svc.Current().DeepWorkSlots)
}

func TestService_ReplaceSaveErrorKeepsCurrent(t *testing.T) {
	old := &domain.Profile{DeepWorkSlots: []int{1}, ShallowWorkSlots: []int{}}
	store := &testutil.MockProfileStore{Profile: old}
	svc := NewService(store, nil)
	store.SaveErr = errors.New("disk full")

	err := svc.Replace(&domain.Profile{DeepWorkSlots: []int{99}})

	require.Error(t, err)
	assert.Equal(t, []int{1}, svc.Current().DeepWorkSlots)
}

func TestService_ReloadMalformedFallsBackToEmpty(t *testing.T) {
	// Setup
	path := filepath.Join(t.TempDir(), "productivity_profile.json")
	fileStore := NewFileStore(path)
	require.NoError(t, fileStore.Save(&domain.Profile{DeepWorkSlots: []int{5}}))
	logger := &testutil.MockLogger{}
	svc := NewService(fileStore, logger)
	require.Equal(t, []int{5}, svc.Current().DeepWorkSlots)

	// Execute
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	err := svc.Reload()

	// Assert
	require.NoError(t, err)
	assert.True(t, svc.Current().IsEmpty())
	assert.True(t, logger.Has("warn", "malformed profile, using empty profile"))
}

func TestService_ReloadPicksUpExternalWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "productivity_profile.json")
	svc := NewService(NewFileStore(path), nil)
	require.True(t, svc.Current().IsEmpty())

	// Another process retrains.
	require.NoError(t, NewFileStore(path).Save(&domain.Profile{ShallowWorkSlots: []int{14, 15, 16}}))
	require.NoError(t, svc.Reload())

	assert.Equal(t, []int{14, 15, 16}, svc.Current().ShallowWorkSlots)
}

func TestService_ConcurrentReadersSeeWholeProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "productivity_profile.json")
	svc := NewService(NewFileStore(path), nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				slot := i*10 + j
				if err := svc.Replace(&domain.Profile{DeepWorkSlots: []int{slot}, ShallowWorkSlots: []int{slot}}); err != nil {
					t.Errorf("Replace: %v", err)
				}
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p := svc.Current()
				if len(p.DeepWorkSlots) != len(p.ShallowWorkSlots) {
					t.Errorf("torn profile: %v", p)
					return
				}
				if len(p.DeepWorkSlots) == 1 && p.DeepWorkSlots[0] != p.ShallowWorkSlots[0] {
					t.Errorf("torn profile: %s", fmt.Sprint(p))
					return
				}
			}
		}()
	}
	wg.Wait()
}
