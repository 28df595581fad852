package mapping

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/portal/internal/bus"
	"github.com/matheus3301/portal/internal/store"
	"github.com/matheus3301/portal/internal/stub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, b *bus.Bus) *Service {
	t.Helper()
	db, err := store.OpenMigrated(filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv := httptest.NewServer(stub.New(stub.Options{}, nil).Handler())
	t.Cleanup(srv.Close)
	return NewService(srv.URL+"/maps", nil, db, b, nil)
}

func TestPreloadAndLookup(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("maps.", 1)
	defer unsub()

	svc := setup(t, b)
	ctx := context.Background()

	_, err := svc.Facility(ctx, "east")
	assert.ErrorIs(t, err, ErrFacilityNotFound)

	require.NoError(t, svc.Preload(ctx))

	f, err := svc.Facility(ctx, "east")
	require.NoError(t, err)
	assert.Equal(t, "East Pavilion", f.Name)
	assert.Equal(t, "portal", f.AppKey)

	all, err := svc.Facilities(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	select {
	case evt := <-ch:
		assert.Equal(t, bus.KindFacilitiesLoaded, evt.Kind)
		assert.Equal(t, 2, evt.Payload)
	case <-time.After(time.Second):
		t.Fatal("no facilities_loaded event")
	}
}

func TestSearchPlacemarks(t *testing.T) {
	svc := setup(t, nil)
	ctx := context.Background()

	got, err := svc.SearchPlacemarks(ctx, &Facility{ID: "east"}, "ATM")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "east", got[0].MapKey)

	got, err = svc.SearchPlacemarks(ctx, &Facility{ID: "west"}, "pharmacy")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMapKeyString(t *testing.T) {
	assert.Equal(t, "portal/east", MapKey{Map: "east", App: "portal"}.String())
}
