package verify

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/lpr/internal/audit"
	"github.com/your-org/lpr/internal/cache"
	"github.com/your-org/lpr/internal/config"
	"github.com/your-org/lpr/internal/models"
	"github.com/your-org/lpr/internal/storage"
)

type fakeStore struct {
	candidates map[uuid.UUID]*models.PlateCandidate
	plates     map[uuid.UUID]*models.Plate

	promotedPlate    *models.Plate
	promotedChars    []models.PlateCharacter
	promotedCandID   uuid.UUID
	promoteErr       error
	updatedCandidate *models.PlateCandidate
	updatedPlateText string
	edits            []*models.PlateEdit
	activityLogs     []*models.ActivityLog
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		candidates: map[uuid.UUID]*models.PlateCandidate{},
		plates:     map[uuid.UUID]*models.Plate{},
	}
}

func (f *fakeStore) GetCandidate(_ context.Context, id uuid.UUID) (*models.PlateCandidate, error) {
	return f.candidates[id], nil
}

func (f *fakeStore) UpdateCandidate(_ context.Context, c *models.PlateCandidate) error {
	if _, ok := f.candidates[c.ID]; !ok {
		return storage.ErrNotFound
	}
	f.updatedCandidate = c
	return nil
}

func (f *fakeStore) DeleteCandidate(_ context.Context, id uuid.UUID) error {
	if _, ok := f.candidates[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.candidates, id)
	return nil
}

func (f *fakeStore) PromoteCandidate(_ context.Context, plate *models.Plate, chars []models.PlateCharacter, candidateID uuid.UUID) error {
	if f.promoteErr != nil {
		return f.promoteErr
	}
	if _, ok := f.candidates[candidateID]; !ok {
		return storage.ErrNotFound
	}
	f.promotedPlate = plate
	f.promotedChars = chars
	f.promotedCandID = candidateID
	f.plates[plate.ID] = plate
	delete(f.candidates, candidateID)
	return nil
}

func (f *fakeStore) GetPlateByID(_ context.Context, id uuid.UUID) (*models.Plate, error) {
	p, ok := f.plates[id]
	if !ok {
		return nil, nil
	}
	// Return a copy, matching the real store which scans a fresh row.
	cp := *p
	return &cp, nil
}

func (f *fakeStore) UpdatePlateNumber(_ context.Context, id uuid.UUID, plate string) error {
	p, ok := f.plates[id]
	if !ok {
		return storage.ErrNotFound
	}
	p.Plate = plate
	f.updatedPlateText = plate
	return nil
}

func (f *fakeStore) InsertPlateEdit(_ context.Context, e *models.PlateEdit) error {
	f.edits = append(f.edits, e)
	return nil
}

func (f *fakeStore) InsertActivityLog(_ context.Context, l *models.ActivityLog) error {
	f.activityLogs = append(f.activityLogs, l)
	return nil
}

func newTestMachine(store *fakeStore) *Machine {
	parts := cache.New(config.CacheConfig{
		PlateTTL:     time.Minute,
		ListingTTL:   time.Minute,
		SearchTTL:    time.Minute,
		CameraTTL:    time.Minute,
		WatchlistTTL: time.Minute,
		AlertTTL:     time.Minute,
	})
	return NewMachine(store, parts, audit.New(store))
}

func testCandidate() *models.PlateCandidate {
	return &models.PlateCandidate{
		ID:              uuid.New(),
		Plate:           "กข1234",
		Province:        "Bangkok",
		CameraID:        "cam-1",
		CameraName:      "Gate A",
		CharConfidences: []float64{0.99, 0.97, 0.95, 0.93, 0.91, 0.89},
		CreatedAt:       time.Date(2023, 6, 15, 7, 30, 0, 0, time.UTC),
	}
}

func TestVerifyPromotesCandidate(t *testing.T) {
	store := newFakeStore()
	cand := testCandidate()
	store.candidates[cand.ID] = cand
	m := newTestMachine(store)

	actor := Actor{ID: uuid.New(), IP: "10.0.0.1", UserAgent: "test"}
	plateID, err := m.Verify(context.Background(), cand.ID, actor)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, plateID)

	p := store.promotedPlate
	require.NotNil(t, p)
	assert.Equal(t, plateID, p.ID)
	assert.Equal(t, "กข1234", p.Plate)
	assert.Equal(t, "Bangkok", p.Province)
	assert.True(t, p.Verified)
	require.NotNil(t, p.UserID)
	assert.Equal(t, actor.ID, *p.UserID)

	// The verified plate inherits the candidate's detection time.
	assert.Equal(t, cand.CreatedAt, p.Timestamp)
	assert.Equal(t, cand.CreatedAt, p.CreatedAt)

	// The candidate is gone after promotion.
	assert.NotContains(t, store.candidates, cand.ID)
	assert.Equal(t, cand.ID, store.promotedCandID)
}

func TestVerifyBuildsCharacterRows(t *testing.T) {
	store := newFakeStore()
	cand := testCandidate()
	store.candidates[cand.ID] = cand
	m := newTestMachine(store)

	plateID, err := m.Verify(context.Background(), cand.ID, Actor{ID: uuid.New()})
	require.NoError(t, err)

	chars := store.promotedChars
	require.Len(t, chars, 6)
	want := []string{"ก", "ข", "1", "2", "3", "4"}
	for i, ch := range chars {
		assert.Equal(t, i, ch.Position)
		assert.Equal(t, want[i], ch.Character)
		assert.Equal(t, cand.CharConfidences[i], ch.Confidence)
		assert.Equal(t, plateID, ch.PlateID)
	}
}

func TestVerifyWithoutConfidencesYieldsNoCharacterRows(t *testing.T) {
	store := newFakeStore()
	cand := testCandidate()
	cand.CharConfidences = nil
	store.candidates[cand.ID] = cand
	m := newTestMachine(store)

	_, err := m.Verify(context.Background(), cand.ID, Actor{ID: uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, store.promotedChars)
}

func TestVerifyMissingCandidate(t *testing.T) {
	store := newFakeStore()
	m := newTestMachine(store)

	_, err := m.Verify(context.Background(), uuid.New(), Actor{ID: uuid.New()})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestVerifyConcurrentDeletionRollsBack(t *testing.T) {
	store := newFakeStore()
	cand := testCandidate()
	store.candidates[cand.ID] = cand
	store.promoteErr = storage.ErrNotFound
	m := newTestMachine(store)

	_, err := m.Verify(context.Background(), cand.ID, Actor{ID: uuid.New()})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRejectDeletesCandidate(t *testing.T) {
	store := newFakeStore()
	cand := testCandidate()
	store.candidates[cand.ID] = cand
	m := newTestMachine(store)

	err := m.Reject(context.Background(), cand.ID, Actor{ID: uuid.New()})
	require.NoError(t, err)
	assert.NotContains(t, store.candidates, cand.ID)

	// Rejecting again fails: the candidate no longer exists.
	err = m.Reject(context.Background(), cand.ID, Actor{ID: uuid.New()})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEditCandidateNoChangesWritesNothing(t *testing.T) {
	store := newFakeStore()
	cand := testCandidate()
	store.candidates[cand.ID] = cand
	m := newTestMachine(store)

	same := cand.Plate
	got, err := m.EditCandidate(context.Background(), cand.ID, models.CandidatePatch{Plate: &same}, Actor{ID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, cand.Plate, got.Plate)
	assert.Nil(t, store.updatedCandidate)
	assert.Empty(t, store.edits)
	assert.Empty(t, store.activityLogs)
}

func TestEditCandidatePlateChangeWritesPendingEdit(t *testing.T) {
	store := newFakeStore()
	cand := testCandidate()
	store.candidates[cand.ID] = cand
	m := newTestMachine(store)

	newText := "กข9999"
	actor := Actor{ID: uuid.New()}
	got, err := m.EditCandidate(context.Background(), cand.ID, models.CandidatePatch{Plate: &newText}, actor)
	require.NoError(t, err)
	assert.Equal(t, newText, got.Plate)
	require.NotNil(t, store.updatedCandidate)

	require.Len(t, store.edits, 1)
	edit := store.edits[0]
	assert.Nil(t, edit.PlateID)
	require.NotNil(t, edit.CandidateID)
	assert.Equal(t, cand.ID, *edit.CandidateID)
	assert.Equal(t, "กข1234", edit.OldPlate)
	assert.Equal(t, newText, edit.NewPlate)
	assert.Equal(t, actor.ID, edit.EditedBy)

	require.Len(t, store.activityLogs, 1)
	assert.Equal(t, "edit_candidate", store.activityLogs[0].Action)
}

func TestEditCandidateRejectsTextLengthMismatch(t *testing.T) {
	cases := []struct {
		name    string
		plate   string
		wantErr bool
	}{
		{"shorter text", "กข12", true},
		{"longer text", "กข1234567", true},
		{"same length", "กข9999", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			cand := testCandidate() // 6 characters, 6 confidences
			store.candidates[cand.ID] = cand
			m := newTestMachine(store)

			got, err := m.EditCandidate(context.Background(), cand.ID, models.CandidatePatch{Plate: &tc.plate}, Actor{ID: uuid.New()})
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrCharCountMismatch)
				assert.Nil(t, store.updatedCandidate)
				assert.Empty(t, store.edits)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.plate, got.Plate)
		})
	}
}

func TestEditCandidateLengthChangeAllowedWithoutConfidences(t *testing.T) {
	store := newFakeStore()
	cand := testCandidate()
	cand.CharConfidences = nil
	store.candidates[cand.ID] = cand
	m := newTestMachine(store)

	shorter := "กข12"
	got, err := m.EditCandidate(context.Background(), cand.ID, models.CandidatePatch{Plate: &shorter}, Actor{ID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, shorter, got.Plate)
}

func TestVerifyNeverMintsEmptyCharacters(t *testing.T) {
	store := newFakeStore()
	cand := testCandidate()
	// Mismatched data from ingestion: more confidences than characters.
	cand.Plate = "กข12"
	store.candidates[cand.ID] = cand
	m := newTestMachine(store)

	_, err := m.Verify(context.Background(), cand.ID, Actor{ID: uuid.New()})
	require.NoError(t, err)

	require.Len(t, store.promotedChars, 4)
	for _, ch := range store.promotedChars {
		assert.NotEmpty(t, ch.Character)
	}
}

func TestEditCandidateNonPlateChangeSkipsEditRow(t *testing.T) {
	store := newFakeStore()
	cand := testCandidate()
	store.candidates[cand.ID] = cand
	m := newTestMachine(store)

	province := "Chiang Mai"
	got, err := m.EditCandidate(context.Background(), cand.ID, models.CandidatePatch{Province: &province}, Actor{ID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, "Chiang Mai", got.Province)
	require.NotNil(t, store.updatedCandidate)
	assert.Empty(t, store.edits)
}

func TestEditThenVerifyResolvesPendingEdit(t *testing.T) {
	store := newFakeStore()
	cand := testCandidate()
	store.candidates[cand.ID] = cand
	m := newTestMachine(store)

	newText := "กข9999"
	_, err := m.EditCandidate(context.Background(), cand.ID, models.CandidatePatch{Plate: &newText}, Actor{ID: uuid.New()})
	require.NoError(t, err)

	plateID, err := m.Verify(context.Background(), cand.ID, Actor{ID: uuid.New()})
	require.NoError(t, err)

	// The promoted plate carries the corrected text, and the promotion
	// is keyed to the candidate whose pending edit rows it resolves.
	assert.Equal(t, newText, store.promotedPlate.Plate)
	assert.Equal(t, cand.ID, store.promotedCandID)
	assert.NotEqual(t, uuid.Nil, plateID)
}

func TestEditVerifiedPlateSameTextIsNoOp(t *testing.T) {
	store := newFakeStore()
	plateID := uuid.New()
	store.plates[plateID] = &models.Plate{ID: plateID, Plate: "กข1234", Verified: true}
	m := newTestMachine(store)

	err := m.EditVerifiedPlate(context.Background(), plateID, "กข1234", "typo", Actor{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrNoChanges)
	assert.Empty(t, store.edits)
	assert.Empty(t, store.updatedPlateText)
}

func TestEditVerifiedPlateRecordsEdit(t *testing.T) {
	store := newFakeStore()
	plateID := uuid.New()
	store.plates[plateID] = &models.Plate{ID: plateID, Plate: "กข1234", Verified: true}
	m := newTestMachine(store)

	actor := Actor{ID: uuid.New()}
	err := m.EditVerifiedPlate(context.Background(), plateID, "กข5678", "ocr mistake", actor)
	require.NoError(t, err)

	assert.Equal(t, "กข5678", store.updatedPlateText)
	require.Len(t, store.edits, 1)
	edit := store.edits[0]
	require.NotNil(t, edit.PlateID)
	assert.Equal(t, plateID, *edit.PlateID)
	assert.Nil(t, edit.CandidateID)
	assert.Equal(t, "กข1234", edit.OldPlate)
	assert.Equal(t, "กข5678", edit.NewPlate)
	assert.Equal(t, "ocr mistake", edit.Reason)
}

func TestEditVerifiedPlateMissing(t *testing.T) {
	store := newFakeStore()
	m := newTestMachine(store)

	err := m.EditVerifiedPlate(context.Background(), uuid.New(), "กข5678", "", Actor{ID: uuid.New()})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
