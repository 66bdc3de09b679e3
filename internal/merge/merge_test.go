package merge

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cakeledger/internal/model"
)

func TestReconcile_PatchesMissingImage(t *testing.T) {
	remote := []model.Order{{ID: "A", CakeImage: ""}}
	local := []model.Order{{ID: "A", CakeImage: "img1"}}

	merged := Reconcile(remote, local)
	require.Len(t, merged, 1)
	assert.Equal(t, "img1", merged[0].CakeImage)
}

func TestReconcile_RemoteImageWins(t *testing.T) {
	remote := []model.Order{{ID: "A", CakeImage: "img2"}}
	local := []model.Order{{ID: "A", CakeImage: "img1"}}

	merged := Reconcile(remote, local)
	require.Len(t, merged, 1)
	assert.Equal(t, "img2", merged[0].CakeImage)
}

func TestReconcile_PatchesDeliveredImageIndependently(t *testing.T) {
	remote := []model.Order{{ID: "A", CakeImage: "remote-cake"}}
	local := []model.Order{{ID: "A", CakeImage: "local-cake", DeliveredImage: "local-done"}}

	merged := Reconcile(remote, local)
	assert.Equal(t, "remote-cake", merged[0].CakeImage)
	assert.Equal(t, "local-done", merged[0].DeliveredImage)
}

func TestReconcile_RemoteFieldsWin(t *testing.T) {
	remote := []model.Order{{ID: "A", CakeType: "Truffle", Price: decimal.NewFromInt(700), Status: model.StatusReady}}
	local := []model.Order{{ID: "A", CakeType: "Vanilla", Price: decimal.NewFromInt(500), Status: model.StatusPending, CakeImage: "img"}}

	merged := Reconcile(remote, local)
	want := remote[0]
	want.CakeImage = "img"
	assert.True(t, want.Equal(merged[0]), "got %+v", merged[0])
}

func TestReconcile_LocalOnlyNotResurrected(t *testing.T) {
	remote := []model.Order{{ID: "A"}}
	local := []model.Order{{ID: "A"}, {ID: "B", CakeImage: "img"}}

	merged := Reconcile(remote, local)
	require.Len(t, merged, 1)
	assert.Equal(t, "A", merged[0].ID)
}

func TestReconcile_PreservesRemoteOrder(t *testing.T) {
	remote := []model.Order{{ID: "C"}, {ID: "A"}, {ID: "B"}}
	merged := Reconcile(remote, nil)
	ids := []string{merged[0].ID, merged[1].ID, merged[2].ID}
	assert.Equal(t, []string{"C", "A", "B"}, ids)
}

func TestReconcile_Idempotent(t *testing.T) {
	remote := []model.Order{
		{ID: "A"},
		{ID: "B", CakeImage: "remote-b"},
		{ID: "C", DeliveredImage: "remote-c"},
	}
	local := []model.Order{
		{ID: "A", CakeImage: "local-a", DeliveredImage: "local-a2"},
		{ID: "B", CakeImage: "local-b"},
		{ID: "D", CakeImage: "local-d"},
	}

	once := Reconcile(remote, local)
	twice := Reconcile(once, local)
	require.Len(t, twice, len(once))
	for i := range once {
		assert.True(t, once[i].Equal(twice[i]), "index %d differs", i)
	}
}

func TestReconcile_DoesNotModifyInputs(t *testing.T) {
	remote := []model.Order{{ID: "A"}}
	local := []model.Order{{ID: "A", CakeImage: "img"}}

	_ = Reconcile(remote, local)
	assert.Empty(t, remote[0].CakeImage)
}
