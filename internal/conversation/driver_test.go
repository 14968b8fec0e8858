package conversation_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/conversation"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
)

func TestDriver_PersistsSessionBetweenTurns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := conversation.NewMemorySessionStore()
	d := conversation.NewDriver(f.machine, store, f.logger)

	f.staff.EXPECT().LookupStaff(gomock.Any(), "FS01").Return(&models.FieldStaff{Code: "FS01", Name: "Andi"}, nil)

	_, err := d.Dispatch(ctx, text("halo"))
	require.NoError(t, err)
	_, err = d.Dispatch(ctx, text("FS01"))
	require.NoError(t, err)
	_, err = d.Dispatch(ctx, text("/start"))
	require.NoError(t, err)
	replies, err := d.Dispatch(ctx, text("ORD-7"))
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.NotEmpty(t, replies[0].Options)

	s, ok, err := d.Session(ctx, "c1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, conversation.StateCollecting, s.State)
	assert.Equal(t, 1, s.StepIndex)
	assert.Equal(t, "ORD-7", s.Fields[models.FieldNoOrder])
	assert.Equal(t, 1, store.Len())
}

func TestDriver_NilStoreUsesMemory(t *testing.T) {
	f := newFixture(t)
	d := conversation.NewDriver(f.machine, nil, nil)

	_, err := d.Dispatch(context.Background(), text("halo"))
	require.NoError(t, err)

	s, ok, err := d.Session(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, conversation.StateAwaitingAuthCode, s.State)
}

func TestDriver_ConcurrentChats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := conversation.NewMemorySessionStore()
	d := conversation.NewDriver(f.machine, store, f.logger)

	const chats = 20
	var wg sync.WaitGroup
	for i := 0; i < chats; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := d.Dispatch(ctx, conversation.Inbound{ChatID: id, Text: "halo"})
			assert.NoError(t, err)
		}(fmt.Sprintf("chat-%d", i))
	}
	wg.Wait()

	assert.Equal(t, chats, store.Len())
	assert.Zero(t, d.ActiveChats())
	for i := 0; i < chats; i++ {
		s, ok, err := d.Session(ctx, fmt.Sprintf("chat-%d", i))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, conversation.StateAwaitingAuthCode, s.State)
	}
}

func TestDriver_SerializesTurnsOfOneChat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := conversation.NewMemorySessionStore()
	require.NoError(t, store.Save(ctx, authenticated("c1")))
	d := conversation.NewDriver(f.machine, store, f.logger)

	_, err := d.Dispatch(ctx, text("/start"))
	require.NoError(t, err)

	// Each answer advances exactly one step; lost updates would leave the
	// index short of the number of turns.
	s, _, err := d.Session(ctx, "c1")
	require.NoError(t, err)
	s.Fields[models.FieldNoOrder] = "X1"
	s.Fields[models.FieldBank] = "BCA"
	s.StepIndex = 2
	require.NoError(t, store.Save(ctx, s))

	const turns = 5
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.Dispatch(ctx, text("/skip"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, _, err = d.Session(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2+turns, s.StepIndex)
	assert.Zero(t, d.ActiveChats())
}

func TestMemorySessionStore_CopiesSessions(t *testing.T) {
	ctx := context.Background()
	store := conversation.NewMemorySessionStore()

	s := authenticated("c1")
	s.Fields = map[models.FieldKey]string{models.FieldNama: "Budi"}
	require.NoError(t, store.Save(ctx, s))
	s.Fields[models.FieldNama] = "changed"

	loaded, ok, err := store.Load(ctx, "c1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Budi", loaded.Fields[models.FieldNama])

	require.NoError(t, store.Delete(ctx, "c1"))
	_, ok, err = store.Load(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, ok)
}
