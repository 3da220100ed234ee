// Package verify implements the candidate verification state machine:
// a candidate either becomes a verified plate (with character rows,
// linked images, and resolved edit history) or is rejected and deleted.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/your-org/lpr/internal/audit"
	"github.com/your-org/lpr/internal/cache"
	"github.com/your-org/lpr/internal/models"
	"github.com/your-org/lpr/internal/observability"
	"github.com/your-org/lpr/internal/storage"
)

// ErrNoChanges indicates an edit whose new text equals the current one;
// nothing was written.
var ErrNoChanges = errors.New("no changes")

// ErrCharCountMismatch indicates a candidate text edit whose new length
// no longer matches the per-character confidence sequence.
var ErrCharCountMismatch = errors.New("plate text length does not match confidence data")

// Actor identifies the operator performing a transition, with the
// request metadata recorded in the activity log.
type Actor struct {
	ID        uuid.UUID
	IP        string
	UserAgent string
}

type Store interface {
	GetCandidate(ctx context.Context, id uuid.UUID) (*models.PlateCandidate, error)
	UpdateCandidate(ctx context.Context, c *models.PlateCandidate) error
	DeleteCandidate(ctx context.Context, id uuid.UUID) error
	PromoteCandidate(ctx context.Context, plate *models.Plate, chars []models.PlateCharacter, candidateID uuid.UUID) error
	GetPlateByID(ctx context.Context, id uuid.UUID) (*models.Plate, error)
	UpdatePlateNumber(ctx context.Context, id uuid.UUID, plate string) error
	InsertPlateEdit(ctx context.Context, e *models.PlateEdit) error
}

type Machine struct {
	store Store
	cache *cache.Partitions
	audit *audit.Logger
}

func NewMachine(store Store, parts *cache.Partitions, auditLog *audit.Logger) *Machine {
	return &Machine{store: store, cache: parts, audit: auditLog}
}

// Verify promotes a candidate to a verified plate and returns the new
// plate id. The plate inherits the candidate's creation timestamp as its
// business timestamp, preserving the original detection time. All
// linked writes happen in one store transaction; a candidate deleted
// concurrently surfaces as storage.ErrNotFound.
func (m *Machine) Verify(ctx context.Context, candidateID uuid.UUID, actor Actor) (uuid.UUID, error) {
	c, err := m.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return uuid.Nil, err
	}
	if c == nil {
		return uuid.Nil, storage.ErrNotFound
	}

	plateID := uuid.New()
	plate := &models.Plate{
		ID:         plateID,
		Plate:      c.Plate,
		Province:   c.Province,
		CameraID:   c.CameraID,
		CameraName: c.CameraName,
		UserID:     &actor.ID,
		Timestamp:  c.CreatedAt,
		Verified:   true,
		CreatedAt:  c.CreatedAt,
	}

	if err := m.store.PromoteCandidate(ctx, plate, characterRows(c, plateID), c.ID); err != nil {
		return uuid.Nil, err
	}

	m.cache.InvalidatePlates()
	observability.CandidatesVerified.Inc()
	m.audit.Log(ctx, &actor.ID, "verify_plate",
		fmt.Sprintf("verified candidate %s as plate %s (%s)", c.ID, plateID, c.Plate),
		actor.IP, actor.UserAgent)

	return plateID, nil
}

// characterRows expands the candidate's per-character confidence
// sequence into plate_characters rows. A candidate without confidence
// data yields zero rows. Confidences past the end of the text are
// dropped rather than minting rows with no character.
func characterRows(c *models.PlateCandidate, plateID uuid.UUID) []models.PlateCharacter {
	if len(c.CharConfidences) == 0 {
		return nil
	}
	runes := []rune(c.Plate)
	chars := make([]models.PlateCharacter, 0, len(c.CharConfidences))
	for i, conf := range c.CharConfidences {
		if i >= len(runes) {
			break
		}
		chars = append(chars, models.PlateCharacter{
			ID:         uuid.New(),
			PlateID:    plateID,
			Position:   i,
			Character:  string(runes[i]),
			Confidence: conf,
		})
	}
	return chars
}

// Reject deletes a candidate without creating a plate. A second reject
// of the same id fails with storage.ErrNotFound.
func (m *Machine) Reject(ctx context.Context, candidateID uuid.UUID, actor Actor) error {
	if err := m.store.DeleteCandidate(ctx, candidateID); err != nil {
		return err
	}
	observability.CandidatesRejected.Inc()
	m.audit.Log(ctx, &actor.ID, "reject_candidate",
		fmt.Sprintf("rejected candidate %s", candidateID),
		actor.IP, actor.UserAgent)
	return nil
}

// EditCandidate applies a partial update to a candidate. A plate-text
// change additionally writes a pending plate_edits row (plate_id null,
// keyed by candidate id) that verification later resolves to the minted
// plate. The field diff is recorded in the activity log.
func (m *Machine) EditCandidate(ctx context.Context, candidateID uuid.UUID, patch models.CandidatePatch, actor Actor) (*models.PlateCandidate, error) {
	c, err := m.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, storage.ErrNotFound
	}

	oldPlate := c.Plate
	changes := map[string]map[string]string{}
	applyField := func(name string, field *string, v *string) {
		if v == nil || *v == *field {
			return
		}
		changes[name] = map[string]string{"old": *field, "new": *v}
		*field = *v
	}
	applyField("plate", &c.Plate, patch.Plate)
	applyField("province", &c.Province, patch.Province)
	applyField("id_camera", &c.CameraID, patch.CameraID)
	applyField("camera_name", &c.CameraName, patch.CameraName)

	if len(changes) == 0 {
		return c, nil
	}

	// A text edit must keep one confidence per character; a silent
	// mismatch would later mint character rows with no character.
	if c.Plate != oldPlate && len(c.CharConfidences) > 0 && len([]rune(c.Plate)) != len(c.CharConfidences) {
		return nil, ErrCharCountMismatch
	}

	if err := m.store.UpdateCandidate(ctx, c); err != nil {
		return nil, err
	}

	if c.Plate != oldPlate {
		edit := &models.PlateEdit{
			CandidateID: &c.ID,
			OldPlate:    oldPlate,
			NewPlate:    c.Plate,
			EditedBy:    actor.ID,
			Reason:      fmt.Sprintf("pre-verify edit (candidate_id=%s)", c.ID),
		}
		if err := m.store.InsertPlateEdit(ctx, edit); err != nil {
			return nil, err
		}
	}

	desc, err := json.Marshal(changes)
	if err != nil {
		slog.Error("marshal candidate diff", "error", err)
		desc = []byte(fmt.Sprintf("edited candidate %s", c.ID))
	}
	m.audit.Log(ctx, &actor.ID, "edit_candidate", string(desc), actor.IP, actor.UserAgent)

	return c, nil
}

// EditVerifiedPlate corrects the text of a verified plate. Equal text is
// a no-op surfaced as ErrNoChanges, with no edit row written.
func (m *Machine) EditVerifiedPlate(ctx context.Context, plateID uuid.UUID, newText, reason string, actor Actor) error {
	p, err := m.store.GetPlateByID(ctx, plateID)
	if err != nil {
		return err
	}
	if p == nil {
		return storage.ErrNotFound
	}
	if p.Plate == newText {
		return ErrNoChanges
	}

	if err := m.store.UpdatePlateNumber(ctx, plateID, newText); err != nil {
		return err
	}

	edit := &models.PlateEdit{
		PlateID:  &plateID,
		OldPlate: p.Plate,
		NewPlate: newText,
		EditedBy: actor.ID,
		Reason:   reason,
	}
	if err := m.store.InsertPlateEdit(ctx, edit); err != nil {
		return err
	}

	m.cache.InvalidatePlates()
	m.audit.Log(ctx, &actor.ID, "edit_plate",
		fmt.Sprintf("plate %s: %q -> %q", plateID, p.Plate, newText),
		actor.IP, actor.UserAgent)

	return nil
}
