package recognize

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkazlauskas/bendrija-ingest/internal/entity"
)

// fakeStore keeps the corpus in memory with an atomic-style Touch.
type fakeStore struct {
	patterns []*entity.RecognitionPattern
	touched  []uuid.UUID
}

func (f *fakeStore) ListByUsage(_ context.Context) ([]*entity.RecognitionPattern, error) {
	out := make([]*entity.RecognitionPattern, len(f.patterns))
	copy(out, f.patterns)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecognitionCount > out[j].RecognitionCount
	})
	return out, nil
}

func (f *fakeStore) Touch(_ context.Context, id uuid.UUID) (int, error) {
	f.touched = append(f.touched, id)
	for _, p := range f.patterns {
		if p.ID == id {
			p.RecognitionCount++
			now := time.Now()
			p.LastUsedAt = &now
			return p.RecognitionCount, nil
		}
	}
	return 0, nil
}

func pattern(name string, count int, vendorID, categoryID uuid.UUID) *entity.RecognitionPattern {
	return &entity.RecognitionPattern{
		ID:               uuid.New(),
		VendorName:       name,
		SignificantToken: SignificantToken(NormalizeVendorName(name)),
		VendorID:         vendorID,
		CategoryID:       categoryID,
		RecognitionCount: count,
	}
}

func TestNormalizeVendorName(t *testing.T) {
	assert.Equal(t, "uab prologika", NormalizeVendorName(`UAB "Prologika"`))
	assert.Equal(t, "uab prologika", NormalizeVendorName("uab   prologika"))
	assert.Equal(t, "mb šilumos ūkis", NormalizeVendorName("MB „Šilumos ūkis“"))

	// idempotence: normalizing a normalized name is a no-op
	once := NormalizeVendorName(`UAB "Prologika"`)
	assert.Equal(t, once, NormalizeVendorName(once))
}

func TestSignificantToken(t *testing.T) {
	assert.Equal(t, "prologika", SignificantToken("uab prologika"))
	assert.Equal(t, "šilumos", SignificantToken("mb šilumos ūkis"))
	assert.Equal(t, "energija", SignificantToken("ab energija"))
	assert.Empty(t, SignificantToken("uab ab mb"))
	assert.Empty(t, SignificantToken(""))
}

func TestRecognizeFilenameAgainstCorpus(t *testing.T) {
	vendorID, categoryID := uuid.New(), uuid.New()
	p := pattern(`UAB "Prologika"`, 3, vendorID, categoryID)
	store := &fakeStore{patterns: []*entity.RecognitionPattern{p}}

	sug, err := NewRecognizer(store, nil).Recognize(context.Background(), "UAB_Prologika_saskaita_2024.pdf", nil)
	require.NoError(t, err)
	require.NotNil(t, sug)

	assert.True(t, sug.IsRecurring)
	require.NotNil(t, sug.VendorID)
	assert.Equal(t, vendorID, *sug.VendorID)
	require.NotNil(t, sug.CategoryID)
	assert.Equal(t, categoryID, *sug.CategoryID)
	assert.Equal(t, 4, p.RecognitionCount, "count strictly increases by 1 per hit")
	assert.Len(t, store.touched, 1)
}

func TestRecognizeCountsGrowOncePerCall(t *testing.T) {
	p := pattern(`UAB "Prologika"`, 0, uuid.New(), uuid.New())
	store := &fakeStore{patterns: []*entity.RecognitionPattern{p}}
	rec := NewRecognizer(store, nil)

	for i := 1; i <= 3; i++ {
		_, err := rec.Recognize(context.Background(), "prologika_saskaita.pdf", nil)
		require.NoError(t, err)
		assert.Equal(t, i, p.RecognitionCount)
	}
}

func TestRecognizeFrequentPatternsCheckedFirst(t *testing.T) {
	vendorA, vendorB := uuid.New(), uuid.New()
	rare := pattern("UAB Prologika Servisas", 1, vendorA, uuid.New())
	frequent := pattern(`UAB "Prologika"`, 9, vendorB, uuid.New())
	store := &fakeStore{patterns: []*entity.RecognitionPattern{rare, frequent}}

	sug, err := NewRecognizer(store, nil).Recognize(context.Background(), "prologika_2024.pdf", nil)
	require.NoError(t, err)
	require.NotNil(t, sug)
	assert.Equal(t, vendorB, *sug.VendorID)
}

func TestRecognizeFallsBackToVendorList(t *testing.T) {
	store := &fakeStore{}
	vendor := &entity.Vendor{ID: uuid.New(), Name: `UAB "Valymas"`}

	sug, err := NewRecognizer(store, nil).Recognize(context.Background(), "valymas_saskaita.pdf", []*entity.Vendor{vendor})
	require.NoError(t, err)
	require.NotNil(t, sug)

	assert.False(t, sug.IsRecurring)
	require.NotNil(t, sug.VendorID)
	assert.Equal(t, vendor.ID, *sug.VendorID)
	assert.Nil(t, sug.CategoryID)
	assert.Empty(t, store.touched, "vendor-list fallback never bumps counters")
}

func TestRecognizeNoMatch(t *testing.T) {
	store := &fakeStore{patterns: []*entity.RecognitionPattern{
		pattern(`UAB "Prologika"`, 3, uuid.New(), uuid.New()),
	}}
	sug, err := NewRecognizer(store, nil).Recognize(context.Background(), "nezinomas_tiekejas.pdf", nil)
	require.NoError(t, err)
	assert.Nil(t, sug)
}
