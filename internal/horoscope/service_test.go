package horoscope

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meuhoroscopo/backend/internal/models"
	"github.com/meuhoroscopo/backend/internal/storage"
)

// fakeStore is an in-memory ContentStore that enforces the same
// uniqueness rules as the database schema.
type fakeStore struct {
	nextID   int64
	daily    map[string]*models.HoroscopeContent // sign|date
	category map[string]*models.CategoryContent  // contentID|categoryID
	votes    map[string]*models.Vote             // contentID|categoryID|userID

	dailyInserts    int
	categoryInserts int
	txInserts       int

	// failNextDailyInsert simulates losing a concurrent insert race:
	// the insert reports a duplicate and a winning row appears.
	failNextDailyInsert bool
	raceWinnerText      string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		daily:    make(map[string]*models.HoroscopeContent),
		category: make(map[string]*models.CategoryContent),
		votes:    make(map[string]*models.Vote),
	}
}

func dailyKey(signID int, date string) string { return fmt.Sprintf("%d|%s", signID, date) }

func (f *fakeStore) GetDailyContent(_ context.Context, signID int, date string) (*models.HoroscopeContent, error) {
	if c, ok := f.daily[dailyKey(signID, date)]; ok {
		return c, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetDailyPreviews(_ context.Context, date string) (map[int]string, error) {
	previews := make(map[int]string)
	for _, content := range f.daily {
		if content.EffectiveDate == date {
			previews[content.SignID] = content.PreviewText
		}
	}
	return previews, nil
}

func (f *fakeStore) InsertDailyContent(_ context.Context, content *models.HoroscopeContent) (int64, error) {
	f.dailyInserts++
	key := dailyKey(content.SignID, content.EffectiveDate)
	if f.failNextDailyInsert {
		f.failNextDailyInsert = false
		f.nextID++
		winner := *content
		winner.ID = f.nextID
		winner.FullText = f.raceWinnerText
		f.daily[key] = &winner
		return 0, storage.ErrDuplicate
	}
	if _, ok := f.daily[key]; ok {
		return 0, storage.ErrDuplicate
	}
	f.nextID++
	stored := *content
	stored.ID = f.nextID
	f.daily[key] = &stored
	return stored.ID, nil
}

func (f *fakeStore) GetCategoryContent(_ context.Context, signID, categoryID int, date string) (*models.CategoryContent, error) {
	general, ok := f.daily[dailyKey(signID, date)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if c, ok := f.category[fmt.Sprintf("%d|%d", general.ID, categoryID)]; ok {
		return c, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) InsertCategoryContent(_ context.Context, content *models.CategoryContent) error {
	f.categoryInserts++
	key := fmt.Sprintf("%d|%d", content.HoroscopeContentID, content.CategoryID)
	if _, ok := f.category[key]; ok {
		return storage.ErrDuplicate
	}
	stored := *content
	f.category[key] = &stored
	return nil
}

func (f *fakeStore) InsertDailyWithCategory(_ context.Context, content *models.HoroscopeContent, categoryID int, categoryText string) (int64, error) {
	f.txInserts++
	key := dailyKey(content.SignID, content.EffectiveDate)
	if f.failNextDailyInsert {
		f.failNextDailyInsert = false
		f.nextID++
		winner := *content
		winner.ID = f.nextID
		winner.FullText = f.raceWinnerText
		f.daily[key] = &winner
		return 0, storage.ErrDuplicate
	}
	if _, ok := f.daily[key]; ok {
		return 0, storage.ErrDuplicate
	}
	f.nextID++
	stored := *content
	stored.ID = f.nextID
	f.daily[key] = &stored
	f.category[fmt.Sprintf("%d|%d", stored.ID, categoryID)] = &models.CategoryContent{
		HoroscopeContentID: stored.ID,
		CategoryID:         categoryID,
		ContentText:        categoryText,
	}
	return stored.ID, nil
}

func voteKey(contentID int64, categoryID int, userID string) string {
	return fmt.Sprintf("%d|%d|%s", contentID, categoryID, userID)
}

func (f *fakeStore) GetVote(_ context.Context, contentID int64, userID string) (*models.Vote, error) {
	if v, ok := f.votes[voteKey(contentID, 0, userID)]; ok {
		return v, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetCategoryVote(_ context.Context, contentID int64, categoryID int, userID string) (*models.Vote, error) {
	if v, ok := f.votes[voteKey(contentID, categoryID, userID)]; ok {
		return v, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) UpsertVote(_ context.Context, contentID int64, userID string, rating bool) error {
	f.votes[voteKey(contentID, 0, userID)] = &models.Vote{HoroscopeContentID: contentID, UserID: userID, Rating: rating}
	return nil
}

func (f *fakeStore) UpsertCategoryVote(_ context.Context, contentID int64, categoryID int, userID string, rating bool) error {
	f.votes[voteKey(contentID, categoryID, userID)] = &models.Vote{
		HoroscopeContentID: contentID,
		CategoryID:         categoryID,
		UserID:             userID,
		Rating:             rating,
	}
	return nil
}

// fakeGenerator returns canned text keyed by category and counts calls.
type fakeGenerator struct {
	calls []string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, date, signNamePt, categoryName string) (string, error) {
	f.calls = append(f.calls, categoryName)
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("texto %s para %s em %s", categoryName, signNamePt, date), nil
}

func TestDailyGeneratesOncePerSignAndDate(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{}
	svc := NewService(store, gen)

	first, err := svc.Daily(context.Background(), "aries", "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, "texto geral para Áries em 2026-03-14", first.Text)
	assert.Equal(t, "Áries", first.Sign)
	assert.Equal(t, 1, first.SignID)
	assert.Equal(t, "2026-03-14", first.Date)
	assert.Len(t, first.Navigation, 12)
	assert.Equal(t, 1, store.dailyInserts)

	second, err := svc.Daily(context.Background(), "aries", "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, first.Text, second.Text)
	assert.Len(t, gen.calls, 1, "second request must be served from storage")
	assert.Equal(t, 1, store.dailyInserts)
}

func TestDailyAcceptsAccentedSlug(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeGenerator{})

	res, err := svc.Daily(context.Background(), "Áries", "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, 1, res.SignID)
}

func TestDailyUnknownSign(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeGenerator{})

	_, err := svc.Daily(context.Background(), "ofiuco", "2026-03-14")
	assert.ErrorIs(t, err, ErrSignNotFound)
}

func TestDailyLostInsertRaceReturnsWinner(t *testing.T) {
	store := newFakeStore()
	store.failNextDailyInsert = true
	store.raceWinnerText = "texto do vencedor"
	svc := NewService(store, &fakeGenerator{})

	res, err := svc.Daily(context.Background(), "touro", "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, "texto do vencedor", res.Text)
}

func TestDailyGenerationFailureLeavesNothingStored(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{err: fmt.Errorf("upstream down")}
	svc := NewService(store, gen)

	_, err := svc.Daily(context.Background(), "leao", "2026-03-14")
	require.Error(t, err)
	assert.Equal(t, 0, store.dailyInserts)
	assert.Empty(t, store.daily)
}

func TestCategoryWithoutParentCreatesBothRows(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{}
	svc := NewService(store, gen)

	res, err := svc.Category(context.Background(), "gemeos", "amor", "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, "texto amor para Gêmeos em 2026-03-14", res.Text)
	assert.Equal(t, "Amor", res.Category)
	assert.Equal(t, []string{"amor", "geral"}, gen.calls, "category text first, then the missing parent")
	assert.Equal(t, 1, store.txInserts)
	assert.Equal(t, 0, store.categoryInserts)

	// The parent general row must now serve Daily without generating.
	daily, err := svc.Daily(context.Background(), "gemeos", "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, "texto geral para Gêmeos em 2026-03-14", daily.Text)
	assert.Len(t, gen.calls, 2)
}

func TestCategoryWithParentInsertsOnlyCategoryRow(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{}
	svc := NewService(store, gen)

	_, err := svc.Daily(context.Background(), "virgem", "2026-03-14")
	require.NoError(t, err)

	res, err := svc.Category(context.Background(), "virgem", "carreira", "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, "texto carreira para Virgem em 2026-03-14", res.Text)
	assert.Equal(t, []string{"geral", "carreira"}, gen.calls)
	assert.Equal(t, 0, store.txInserts)
	assert.Equal(t, 1, store.categoryInserts)
}

func TestCategoryServedFromStorageOnSecondRequest(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{}
	svc := NewService(store, gen)

	first, err := svc.Category(context.Background(), "libra", "saude", "2026-03-14")
	require.NoError(t, err)

	second, err := svc.Category(context.Background(), "libra", "saude", "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, first.Text, second.Text)
	assert.Len(t, gen.calls, 2, "category and parent on the first request, nothing after")
}

func TestCategoryLostParentRaceFallsBackToCategoryInsert(t *testing.T) {
	store := newFakeStore()
	store.failNextDailyInsert = true
	store.raceWinnerText = "geral do vencedor"
	gen := &fakeGenerator{}
	svc := NewService(store, gen)

	res, err := svc.Category(context.Background(), "peixes", "financas", "2026-03-14")
	require.NoError(t, err)
	// The category text still lands under the winner's general row.
	assert.Equal(t, "texto financas para Peixes em 2026-03-14", res.Text)
	assert.Equal(t, 1, store.categoryInserts)
}

func TestCategoryUnknownCategory(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeGenerator{})

	_, err := svc.Category(context.Background(), "aries", "loteria", "2026-03-14")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestGetVoteBeforeContentExists(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeGenerator{})

	status, err := svc.GetVote(context.Background(), "user-1", 1, "2026-03-14", 0)
	require.NoError(t, err)
	assert.False(t, status.HasVoted)
	assert.Nil(t, status.Rating)
}

func TestCastVoteRequiresContent(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeGenerator{})

	err := svc.CastVote(context.Background(), "user-1", 1, "2026-03-14", 0, true)
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestCastVoteAndReadBack(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeGenerator{})

	_, err := svc.Daily(context.Background(), "aries", "2026-03-14")
	require.NoError(t, err)

	require.NoError(t, svc.CastVote(context.Background(), "user-1", 1, "2026-03-14", 0, true))

	status, err := svc.GetVote(context.Background(), "user-1", 1, "2026-03-14", 0)
	require.NoError(t, err)
	assert.True(t, status.HasVoted)
	require.NotNil(t, status.Rating)
	assert.True(t, *status.Rating)

	// A second vote replaces the first rather than erroring.
	require.NoError(t, svc.CastVote(context.Background(), "user-1", 1, "2026-03-14", 0, false))
	status, err = svc.GetVote(context.Background(), "user-1", 1, "2026-03-14", 0)
	require.NoError(t, err)
	require.NotNil(t, status.Rating)
	assert.False(t, *status.Rating)
}

func TestCastCategoryVoteRequiresCategoryRow(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeGenerator{})

	_, err := svc.Daily(context.Background(), "aries", "2026-03-14")
	require.NoError(t, err)

	err = svc.CastVote(context.Background(), "user-1", 1, "2026-03-14", 2, true)
	assert.ErrorIs(t, err, ErrCategoryContentNotFound)

	_, err = svc.Category(context.Background(), "aries", "amor", "2026-03-14")
	require.NoError(t, err)

	require.NoError(t, svc.CastVote(context.Background(), "user-1", 1, "2026-03-14", 2, true))

	status, err := svc.GetVote(context.Background(), "user-1", 1, "2026-03-14", 2)
	require.NoError(t, err)
	assert.True(t, status.HasVoted)

	// The category vote must not bleed into the general target.
	general, err := svc.GetVote(context.Background(), "user-1", 1, "2026-03-14", 0)
	require.NoError(t, err)
	assert.False(t, general.HasVoted)
}

func TestSignsWithPreviews(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeGenerator{})

	_, err := svc.Daily(context.Background(), "aries", "2026-03-14")
	require.NoError(t, err)

	signs, err := svc.SignsWithPreviews(context.Background(), "2026-03-14")
	require.NoError(t, err)
	require.Len(t, signs, 12)

	// Áries has content for the day, so its stored preview is served.
	assert.Equal(t, "aries", signs[0].Chave)
	assert.Equal(t, "texto geral para Áries em 2026", signs[0].PreviewText)

	// Signs without content fall back to the placeholder.
	for _, sign := range signs[1:] {
		assert.Equal(t, "Clique para ver o horóscopo", sign.PreviewText, "sign %s", sign.Chave)
	}

	// A different date has no content at all.
	signs, err = svc.SignsWithPreviews(context.Background(), "2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, "Clique para ver o horóscopo", signs[0].PreviewText)
}

func TestPreviewTruncatesOnRunes(t *testing.T) {
	long := "Hoje é um dia de transformação e novas descobertas para você"
	assert.Equal(t, 30, len([]rune(preview(long))))
	assert.Equal(t, "curto", preview("curto"))
}

func TestFormatDateRange(t *testing.T) {
	aries := models.SignBySlug("aries")
	require.NotNil(t, aries)
	assert.Equal(t, "21/03 a 19/04", formatDateRange(aries))
}
