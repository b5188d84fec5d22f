package curation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"dgstudios-backend/internal/apperrors"
	"dgstudios-backend/internal/events"
	"dgstudios-backend/internal/models"
	"dgstudios-backend/internal/portfolio"
	"dgstudios-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	hero      *Service
	portfolio *portfolio.Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	st := store.NewMemoryStore()
	bus := events.NewBus()
	return &fixture{
		hero:      NewService(st, bus, zap.NewNop(), opts...),
		portfolio: portfolio.NewService(st, bus, zap.NewNop()),
	}
}

func (f *fixture) items(t *testing.T, n int) []models.PortfolioItem {
	t.Helper()
	items := make([]models.PortfolioItem, n)
	for i := range items {
		item, err := f.portfolio.Create(context.Background(), models.PortfolioItemRequest{
			Title:    fmt.Sprintf("Shot %d", i),
			Category: "wedding",
			ImageRef: fmt.Sprintf("https://img.test/%d.jpg", i),
		})
		require.NoError(t, err)
		items[i] = *item
	}
	return items
}

func (f *fixture) slides(t *testing.T, items []models.PortfolioItem) []models.HeroSlide {
	t.Helper()
	slides := make([]models.HeroSlide, len(items))
	for i, item := range items {
		slide, err := f.hero.Add(context.Background(), item.ID)
		require.NoError(t, err)
		slides[i] = *slide
	}
	return slides
}

func assertInvariants(t *testing.T, slides []models.HeroSlide) {
	t.Helper()
	assert.LessOrEqual(t, len(slides), models.MaxHeroSlides)
	seen := map[string]bool{}
	for i, slide := range slides {
		assert.Equal(t, i, slide.Order, "slide %s", slide.ID)
		assert.Equal(t, i == 0, slide.IsActive, "slide %s", slide.ID)
		assert.False(t, seen[slide.PortfolioItemID], "portfolio item %s curated twice", slide.PortfolioItemID)
		seen[slide.PortfolioItemID] = true
	}
}

func slideIDs(slides []models.HeroSlide) []string {
	ids := make([]string, len(slides))
	for i, slide := range slides {
		ids[i] = slide.ID
	}
	return ids
}

func (f *fixture) list(t *testing.T) []models.HeroSlide {
	t.Helper()
	slides, err := f.hero.List(context.Background())
	require.NoError(t, err)
	return slides
}

func TestAddToEmptyStoreIsActive(t *testing.T) {
	f := newFixture(t)
	item := f.items(t, 1)[0]

	slide, err := f.hero.Add(context.Background(), item.ID)
	require.NoError(t, err)

	assert.Contains(t, slide.ID, models.HeroSlideIDPrefix)
	assert.Equal(t, 0, slide.Order)
	assert.True(t, slide.IsActive)
	assert.Equal(t, item, slide.PortfolioItem)

	_, err = f.hero.Add(context.Background(), item.ID)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicate))
	assert.Len(t, f.list(t), 1)
}

func TestAddUpToCapacity(t *testing.T) {
	f := newFixture(t)
	items := f.items(t, 6)
	f.slides(t, items[:5])

	_, err := f.hero.Add(context.Background(), items[5].ID)

	assert.True(t, errors.Is(err, apperrors.ErrCapacityExceeded))
	assert.Equal(t, "Maximum 5 hero slides allowed", apperrors.Message(err))
	slides := f.list(t)
	assert.Len(t, slides, 5)
	assertInvariants(t, slides)
}

func TestAddCapacityCheckedBeforeExistence(t *testing.T) {
	f := newFixture(t)
	f.slides(t, f.items(t, 5))

	_, err := f.hero.Add(context.Background(), "does-not-exist")
	assert.True(t, errors.Is(err, apperrors.ErrCapacityExceeded))

	_, err = f.hero.Add(context.Background(), "")
	assert.True(t, errors.Is(err, apperrors.ErrCapacityExceeded))
}

func TestAddUnknownItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.hero.Add(context.Background(), "does-not-exist")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = f.hero.Add(context.Background(), "")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Empty(t, f.list(t))
}

func TestRemoveReindexes(t *testing.T) {
	f := newFixture(t)
	s := f.slides(t, f.items(t, 5))
	a, b, c, d, e := s[0], s[1], s[2], s[3], s[4]

	result, err := f.hero.Remove(context.Background(), b.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{a.ID, c.ID, d.ID, e.ID}, slideIDs(result))
	assertInvariants(t, result)
	assert.True(t, result[0].IsActive)
	assert.Equal(t, result, f.list(t))
}

func TestRemoveActiveSlidePromotesNext(t *testing.T) {
	f := newFixture(t)
	s := f.slides(t, f.items(t, 3))

	result, err := f.hero.Remove(context.Background(), s[0].ID)
	require.NoError(t, err)

	assert.Equal(t, []string{s[1].ID, s[2].ID}, slideIDs(result))
	assertInvariants(t, result)
}

func TestRemoveUnknownIsNotFound(t *testing.T) {
	f := newFixture(t)
	f.slides(t, f.items(t, 2))

	_, err := f.hero.Remove(context.Background(), "hero_missing")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Len(t, f.list(t), 2)
}

func TestReorderDropsOmittedSlides(t *testing.T) {
	f := newFixture(t)
	s := f.slides(t, f.items(t, 3))
	a, c := s[0], s[2]

	result, err := f.hero.Reorder(context.Background(), []string{c.ID, a.ID})
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, c.ID, result[0].ID)
	assert.True(t, result[0].IsActive)
	assert.Equal(t, a.ID, result[1].ID)
	assert.False(t, result[1].IsActive)
	assertInvariants(t, result)
	assert.Equal(t, result, f.list(t))
}

func TestReorderIgnoresUnknownAndRepeatedIDs(t *testing.T) {
	f := newFixture(t)
	s := f.slides(t, f.items(t, 3))

	result, err := f.hero.Reorder(context.Background(), []string{"hero_ghost", s[2].ID, s[1].ID, s[2].ID, s[0].ID})
	require.NoError(t, err)

	assert.Equal(t, []string{s[2].ID, s[1].ID, s[0].ID}, slideIDs(result))
	assertInvariants(t, result)
}

func TestReorderEmptyListClearsSlides(t *testing.T) {
	f := newFixture(t)
	f.slides(t, f.items(t, 2))

	result, err := f.hero.Reorder(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, result)
	assert.Empty(t, f.list(t))
}

func TestPortfolioDeleteCascades(t *testing.T) {
	f := newFixture(t)
	items := f.items(t, 4)
	s := f.slides(t, items[:3])

	require.NoError(t, f.portfolio.Delete(context.Background(), items[0].ID))

	slides := f.list(t)
	assert.Equal(t, []string{s[1].ID, s[2].ID}, slideIDs(slides))
	assertInvariants(t, slides)
}

func TestPortfolioDeleteWithoutSlideLeavesSlidesUntouched(t *testing.T) {
	f := newFixture(t)
	items := f.items(t, 3)
	f.slides(t, items[:2])
	before := f.list(t)

	require.NoError(t, f.portfolio.Delete(context.Background(), items[2].ID))

	assert.Equal(t, before, f.list(t))
}

func TestPortfolioClearRemovesSlides(t *testing.T) {
	f := newFixture(t)
	f.slides(t, f.items(t, 3))

	require.NoError(t, f.portfolio.Clear(context.Background()))

	assert.Empty(t, f.list(t))
}

func TestSnapshotPolicy(t *testing.T) {
	for _, tc := range []struct {
		name      string
		policy    SnapshotPolicy
		wantTitle string
	}{
		{"snapshot", UseSnapshot, "Shot 0"},
		{"live", RefetchLive, "Renamed"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, WithSnapshotPolicy(tc.policy))
			item := f.items(t, 1)[0]
			f.slides(t, []models.PortfolioItem{item})

			title := "Renamed"
			_, err := f.portfolio.Update(context.Background(), item.ID, models.PortfolioItemPatch{Title: &title})
			require.NoError(t, err)

			slides := f.list(t)
			require.Len(t, slides, 1)
			assert.Equal(t, tc.wantTitle, slides[0].PortfolioItem.Title)
		})
	}
}

func TestConcurrentAddsNeverExceedCapacity(t *testing.T) {
	for _, existing := range []int{0, 2, 4, 5} {
		t.Run(fmt.Sprintf("existing=%d", existing), func(t *testing.T) {
			f := newFixture(t)
			const attempts = 12
			items := f.items(t, existing+attempts)
			f.slides(t, items[:existing])

			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
				capacity  int
			)
			for _, item := range items[existing:] {
				wg.Add(1)
				go func(id string) {
					defer wg.Done()
					_, err := f.hero.Add(context.Background(), id)
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						successes++
					case errors.Is(err, apperrors.ErrCapacityExceeded):
						capacity++
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}(item.ID)
			}
			wg.Wait()

			k := models.MaxHeroSlides - existing
			assert.Equal(t, min(attempts, k), successes)
			assert.Equal(t, attempts-successes, capacity)
			slides := f.list(t)
			assert.Len(t, slides, models.MaxHeroSlides)
			assertInvariants(t, slides)
		})
	}
}

func TestReindex(t *testing.T) {
	in := []models.HeroSlide{
		{ID: "x", PortfolioItemID: "item-x", Order: 3, IsActive: false},
		{ID: "y", PortfolioItemID: "item-y", Order: 0, IsActive: true},
		{ID: "z", PortfolioItemID: "item-z", Order: 9, IsActive: true},
	}

	out := reindex(in)

	assertInvariants(t, out)
	assert.Equal(t, []string{"x", "y", "z"}, slideIDs(out))
	assert.Equal(t, 3, in[0].Order, "input must not be modified")
}

func TestAddStampsSlideWithClock(t *testing.T) {
	at := time.Date(2025, 8, 26, 13, 41, 0, 0, time.UTC)
	f := newFixture(t, WithClock(func() time.Time { return at }))
	item := f.items(t, 1)[0]

	slide, err := f.hero.Add(context.Background(), item.ID)

	require.NoError(t, err)
	assert.Equal(t, at, slide.AddedAt)
}
