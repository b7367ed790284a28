package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityManager_Create(t *testing.T) {
	t.Parallel()

	em := newEntityManager()
	for want := range EntityID(1000) {
		id := em.create()
		require.Equal(t, want, id, "ids are handed out sequentially")
		assert.True(t, em.isAlive(id))
	}
	assert.Equal(t, 1000, em.count())
	assert.Equal(t, 2, em.live.activePageCount())
}

func TestEntityManager_Remove(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		create     int
		remove     []EntityID
		wantResult []bool
		wantCount  int
	}{
		{
			name:       "remove live entity",
			create:     3,
			remove:     []EntityID{1},
			wantResult: []bool{true},
			wantCount:  2,
		},
		{
			name:       "remove twice",
			create:     3,
			remove:     []EntityID{1, 1},
			wantResult: []bool{true, false},
			wantCount:  2,
		},
		{
			name:       "remove never created",
			create:     3,
			remove:     []EntityID{10},
			wantResult: []bool{false},
			wantCount:  3,
		},
		{
			name:       "remove everything",
			create:     3,
			remove:     []EntityID{2, 0, 1},
			wantResult: []bool{true, true, true},
			wantCount:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			em := newEntityManager()
			for range tt.create {
				em.create()
			}

			for i, id := range tt.remove {
				assert.Equal(t, tt.wantResult[i], em.remove(id), "remove(%d)", id)
				assert.False(t, em.isAlive(id))
			}
			assert.Equal(t, tt.wantCount, em.count())
		})
	}
}

func TestEntityManager_IDsAreNeverReused(t *testing.T) {
	t.Parallel()

	em := newEntityManager()
	a := em.create()
	b := em.create()
	require.True(t, em.remove(a))
	require.True(t, em.remove(b))

	c := em.create()
	assert.Equal(t, EntityID(2), c)
	assert.False(t, em.isAlive(a))

	em.reset()
	assert.Equal(t, 0, em.count())
	assert.Equal(t, EntityID(3), em.create(), "reset keeps the counter")
}
