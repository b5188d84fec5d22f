package portfolio

import (
	"context"
	"errors"
	"testing"

	"dgstudios-backend/internal/apperrors"
	"dgstudios-backend/internal/events"
	"dgstudios-backend/internal/models"
	"dgstudios-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() (*Service, *events.Bus) {
	bus := events.NewBus()
	return NewService(store.NewMemoryStore(), bus, zap.NewNop()), bus
}

func TestCreateAssignsIDAndAppendsOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, models.PortfolioItemRequest{Title: "Bride", Category: "wedding", ImageRef: "w1.jpg"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, models.PortfolioItemRequest{Title: "Groom", Category: "wedding", CloudinaryURL: "w2.jpg"})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.UploadedAt.IsZero())
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
	assert.Equal(t, "w2.jpg", second.ImageRef)
}

func TestCreateHonoursSuppliedOrder(t *testing.T) {
	svc, _ := newTestService()
	order := 7

	item, err := svc.Create(context.Background(), models.PortfolioItemRequest{ImageRef: "p.jpg", Order: &order})
	require.NoError(t, err)
	assert.Equal(t, 7, item.Order)
}

func TestCreateRequiresImage(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), models.PortfolioItemRequest{Title: "No image"})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestCreateRejectsDuplicateImage(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, models.PortfolioItemRequest{ImageRef: "same.jpg"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.PortfolioItemRequest{ImageRef: "same.jpg"})

	assert.True(t, errors.Is(err, apperrors.ErrDuplicate))
	items, _ := svc.List(ctx, "")
	assert.Len(t, items, 1)
}

func TestListFiltersByCategory(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	for _, req := range []models.PortfolioItemRequest{
		{ImageRef: "1.jpg", Category: "wedding"},
		{ImageRef: "2.jpg", Category: "portrait"},
		{ImageRef: "3.jpg", Category: "Wedding"},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, "wedding")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1.jpg", items[0].ImageRef)
	assert.Equal(t, "3.jpg", items[1].ImageRef)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateOnlyTouchesTitleAndCategory(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	item, err := svc.Create(ctx, models.PortfolioItemRequest{Title: "Old", Category: "portrait", ImageRef: "x.jpg"})
	require.NoError(t, err)

	title := "New"
	updated, err := svc.Update(ctx, item.ID, models.PortfolioItemPatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "portrait", updated.Category)
	assert.Equal(t, "x.jpg", updated.ImageRef)
	assert.Equal(t, item.ID, updated.ID)
}

func TestUpdateUnknownIsNotFound(t *testing.T) {
	svc, _ := newTestService()
	title := "x"

	_, err := svc.Update(context.Background(), "missing", models.PortfolioItemPatch{Title: &title})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDeletePublishesEventOnlyForExistingItems(t *testing.T) {
	svc, bus := newTestService()
	ctx := context.Background()
	var deleted []string
	bus.OnPortfolioItemDeleted(func(ctx context.Context, tx store.Tx, ev events.PortfolioItemDeleted) error {
		deleted = append(deleted, ev.ItemID)
		return nil
	})
	item, err := svc.Create(ctx, models.PortfolioItemRequest{ImageRef: "d.jpg"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "missing"))
	require.NoError(t, svc.Delete(ctx, item.ID))
	require.NoError(t, svc.Delete(ctx, item.ID))

	assert.Equal(t, []string{item.ID}, deleted)
}

func TestDeleteRollsBackWhenSubscriberFails(t *testing.T) {
	svc, bus := newTestService()
	ctx := context.Background()
	bus.OnPortfolioItemDeleted(func(ctx context.Context, tx store.Tx, ev events.PortfolioItemDeleted) error {
		return errors.New("store unavailable")
	})
	item, err := svc.Create(ctx, models.PortfolioItemRequest{ImageRef: "keep.jpg"})
	require.NoError(t, err)

	err = svc.Delete(ctx, item.ID)
	require.Error(t, err)

	items, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
}

func TestClearRemovesEverything(t *testing.T) {
	svc, bus := newTestService()
	ctx := context.Background()
	cleared := false
	bus.OnPortfolioCleared(func(ctx context.Context, tx store.Tx, ev events.PortfolioCleared) error {
		cleared = true
		return nil
	})
	for _, ref := range []string{"a.jpg", "b.jpg"} {
		_, err := svc.Create(ctx, models.PortfolioItemRequest{ImageRef: ref})
		require.NoError(t, err)
	}

	require.NoError(t, svc.Clear(ctx))

	items, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.True(t, cleared)
}
