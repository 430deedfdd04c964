package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codespace555/arya-co/internal/models"
)

func TestViewReplaceAndVisible(t *testing.T) {
	v := NewView()
	v.SetUsers([]models.User{{ID: "u1", Name: "Asha"}})
	v.Replace(fixtureOrders())

	assert.Len(t, v.Visible(), 3, "no filter shows everything")

	v.SetFilter(Filter{Status: models.StatusShipped})
	visible := v.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "o2", visible[0].ID)
}

func TestViewSnapshotIsIndependent(t *testing.T) {
	v := NewView()
	v.Replace(fixtureOrders())

	snap := v.Snapshot()
	require.True(t, v.SetStatus("o1", models.StatusDelivered))

	assert.Equal(t, models.StatusPending, snap[0].Status, "snapshot must not see later mutations")

	v.Restore(snap)
	got, ok := v.Get("o1")
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestViewSetStatusMissing(t *testing.T) {
	v := NewView()
	v.Replace(fixtureOrders())
	assert.False(t, v.SetStatus("nope", models.StatusShipped))
}

func TestViewReplaceAppliesLatestSnapshot(t *testing.T) {
	v := NewView()
	v.Replace([]models.Order{{ID: "o1", Status: models.StatusPending}})
	v.Replace([]models.Order{{ID: "o1", Status: models.StatusShipped}})

	got, ok := v.Get("o1")
	require.True(t, ok)
	assert.Equal(t, models.StatusShipped, got.Status, "last snapshot observed wins")
}
