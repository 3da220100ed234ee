package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/your-org/lpr/internal/config"
	"github.com/your-org/lpr/internal/models"
)

// ErrNotFound is returned by writes that matched zero rows.
var ErrNotFound = errors.New("not found")

type PostgresStore struct {
	pool  *pgxpool.Pool
	pacer *Pacer
}

func NewPostgresStore(cfg config.DatabaseConfig, throttle config.ThrottleConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool, pacer: NewPacer(throttle.MinInterval)}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Candidates ---

func (s *PostgresStore) CreateCandidate(ctx context.Context, c *models.PlateCandidate) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plate_candidates (id, plate, province, id_camera, camera_name, char_confidences, province_confidence, uploaded_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Plate, c.Province, c.CameraID, c.CameraName,
		c.CharConfidences, c.ProvinceConfidence, c.UploadedBy, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create candidate: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetCandidate(ctx context.Context, id uuid.UUID) (*models.PlateCandidate, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	c := &models.PlateCandidate{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, plate, province, id_camera, camera_name, char_confidences, province_confidence, uploaded_by, created_at
		 FROM plate_candidates WHERE id = $1`, id,
	).Scan(&c.ID, &c.Plate, &c.Province, &c.CameraID, &c.CameraName,
		&c.CharConfidences, &c.ProvinceConfidence, &c.UploadedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListCandidates(ctx context.Context, limit int) ([]models.PlateCandidate, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, plate, province, id_camera, camera_name, char_confidences, province_confidence, uploaded_by, created_at
		 FROM plate_candidates ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []models.PlateCandidate
	for rows.Next() {
		var c models.PlateCandidate
		if err := rows.Scan(&c.ID, &c.Plate, &c.Province, &c.CameraID, &c.CameraName,
			&c.CharConfidences, &c.ProvinceConfidence, &c.UploadedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (s *PostgresStore) UpdateCandidate(ctx context.Context, c *models.PlateCandidate) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE plate_candidates SET plate = $1, province = $2, id_camera = $3, camera_name = $4 WHERE id = $5`,
		c.Plate, c.Province, c.CameraID, c.CameraName, c.ID)
	if err != nil {
		return fmt.Errorf("update candidate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteCandidate(ctx context.Context, id uuid.UUID) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM plate_candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PromoteCandidate performs the linked writes of a verification in a
// single transaction: insert the plate and its character rows, link
// evidence images by correlation id, resolve pending plate edits, then
// delete the candidate. Rolls back entirely on any failure.
func (s *PostgresStore) PromoteCandidate(ctx context.Context, plate *models.Plate, chars []models.PlateCharacter, candidateID uuid.UUID) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin promote: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO plates (id, plate, province, id_camera, camera_name, user_id, timestamp, verified, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		plate.ID, plate.Plate, plate.Province, plate.CameraID, plate.CameraName,
		plate.UserID, plate.Timestamp, plate.Verified, plate.CreatedAt)
	if err != nil {
		return fmt.Errorf("promote: insert plate: %w", err)
	}

	for _, ch := range chars {
		_, err = tx.Exec(ctx,
			`INSERT INTO plate_characters (id, plate_id, position, character, confidence)
			 VALUES ($1, $2, $3, $4, $5)`,
			ch.ID, ch.PlateID, ch.Position, ch.Character, ch.Confidence)
		if err != nil {
			return fmt.Errorf("promote: insert character %d: %w", ch.Position, err)
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE plate_images SET plate_id = $1, verified = TRUE WHERE correlation_id = $2`,
		plate.ID, candidateID)
	if err != nil {
		return fmt.Errorf("promote: link images: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE plate_edits SET plate_id = $1 WHERE candidate_id = $2 AND plate_id IS NULL`,
		plate.ID, candidateID)
	if err != nil {
		return fmt.Errorf("promote: resolve pending edits: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM plate_candidates WHERE id = $1`, candidateID)
	if err != nil {
		return fmt.Errorf("promote: delete candidate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Candidate vanished between fetch and promote (concurrent
		// verify or reject). Roll back the whole transition.
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit promote: %w", err)
	}
	return nil
}

// --- Plates ---

func (s *PostgresStore) CreatePlate(ctx context.Context, p *models.Plate) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = p.CreatedAt
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plates (id, plate, province, id_camera, camera_name, user_id, timestamp, verified, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Plate, p.Province, p.CameraID, p.CameraName,
		p.UserID, p.Timestamp, p.Verified, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create plate: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPlateByID(ctx context.Context, id uuid.UUID) (*models.Plate, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	p := &models.Plate{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, plate, province, id_camera, camera_name, user_id, timestamp, verified, created_at
		 FROM plates WHERE id = $1`, id,
	).Scan(&p.ID, &p.Plate, &p.Province, &p.CameraID, &p.CameraName,
		&p.UserID, &p.Timestamp, &p.Verified, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plate: %w", err)
	}
	return p, nil
}

// GetPlateByNumber returns the most recent record for a plate number.
func (s *PostgresStore) GetPlateByNumber(ctx context.Context, plate string) (*models.Plate, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	p := &models.Plate{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, plate, province, id_camera, camera_name, user_id, timestamp, verified, created_at
		 FROM plates WHERE plate = $1 ORDER BY timestamp DESC LIMIT 1`, plate,
	).Scan(&p.ID, &p.Plate, &p.Province, &p.CameraID, &p.CameraName,
		&p.UserID, &p.Timestamp, &p.Verified, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plate by number: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListPlates(ctx context.Context, limit int) ([]models.Plate, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, plate, province, id_camera, camera_name, user_id, timestamp, verified, created_at
		 FROM plates ORDER BY timestamp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list plates: %w", err)
	}
	defer rows.Close()
	return scanPlates(rows)
}

// PlateQuery is the remote-predicate subset of a search request. The
// hour-of-day window is applied by the search engine after the fetch.
type PlateQuery struct {
	Term       string
	Province   string
	CameraID   string
	CameraName string
	From       *time.Time
	To         *time.Time
	Limit      int
}

// SearchPlates ANDs together whichever predicates are present and
// returns rows in descending timestamp order.
func (s *PostgresStore) SearchPlates(ctx context.Context, q PlateQuery) ([]models.Plate, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	where := "WHERE TRUE"
	args := []interface{}{}
	argIdx := 1

	if q.Term != "" {
		where += fmt.Sprintf(" AND plate ILIKE '%%' || $%d || '%%'", argIdx)
		args = append(args, q.Term)
		argIdx++
	}
	if q.Province != "" {
		where += fmt.Sprintf(" AND province = $%d", argIdx)
		args = append(args, q.Province)
		argIdx++
	}
	if q.CameraID != "" {
		where += fmt.Sprintf(" AND id_camera = $%d", argIdx)
		args = append(args, q.CameraID)
		argIdx++
	}
	if q.CameraName != "" {
		where += fmt.Sprintf(" AND camera_name ILIKE '%%' || $%d || '%%'", argIdx)
		args = append(args, q.CameraName)
		argIdx++
	}
	if q.From != nil {
		where += fmt.Sprintf(" AND timestamp >= $%d", argIdx)
		args = append(args, *q.From)
		argIdx++
	}
	if q.To != nil {
		where += fmt.Sprintf(" AND timestamp < $%d", argIdx)
		args = append(args, *q.To)
		argIdx++
	}

	query := fmt.Sprintf(
		`SELECT id, plate, province, id_camera, camera_name, user_id, timestamp, verified, created_at
		 FROM plates %s ORDER BY timestamp DESC LIMIT $%d`, where, argIdx)
	args = append(args, q.Limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search plates: %w", err)
	}
	defer rows.Close()
	return scanPlates(rows)
}

func scanPlates(rows pgx.Rows) ([]models.Plate, error) {
	var plates []models.Plate
	for rows.Next() {
		var p models.Plate
		if err := rows.Scan(&p.ID, &p.Plate, &p.Province, &p.CameraID, &p.CameraName,
			&p.UserID, &p.Timestamp, &p.Verified, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan plate: %w", err)
		}
		plates = append(plates, p)
	}
	return plates, nil
}

func (s *PostgresStore) UpdatePlateNumber(ctx context.Context, id uuid.UUID, plate string) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `UPDATE plates SET plate = $1 WHERE id = $2`, plate, id)
	if err != nil {
		return fmt.Errorf("update plate number: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePlate removes a plate and its character rows. Character cleanup
// is best-effort within the same transaction.
func (s *PostgresStore) DeletePlate(ctx context.Context, id uuid.UUID) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete plate: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM plate_characters WHERE plate_id = $1`, id); err != nil {
		return fmt.Errorf("delete plate characters: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM plates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete plate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// --- Plate edits ---

func (s *PostgresStore) InsertPlateEdit(ctx context.Context, e *models.PlateEdit) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.EditedAt.IsZero() {
		e.EditedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plate_edits (id, plate_id, candidate_id, old_plate, new_plate, edited_by, reason, edited_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.PlateID, e.CandidateID, e.OldPlate, e.NewPlate, e.EditedBy, e.Reason, e.EditedAt)
	if err != nil {
		return fmt.Errorf("insert plate edit: %w", err)
	}
	return nil
}

// --- Images ---

func (s *PostgresStore) CreateImage(ctx context.Context, im *models.PlateImage) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	if im.ID == uuid.Nil {
		im.ID = uuid.New()
	}
	if im.UploadedAt.IsZero() {
		im.UploadedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plate_images (id, correlation_id, object_key, uploaded_by, verified, plate_id, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		im.ID, im.CorrelationID, im.ObjectKey, im.UploadedBy, im.Verified, im.PlateID, im.UploadedAt)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetImage(ctx context.Context, id uuid.UUID) (*models.PlateImage, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	im := &models.PlateImage{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, correlation_id, object_key, uploaded_by, verified, plate_id, uploaded_at
		 FROM plate_images WHERE id = $1`, id,
	).Scan(&im.ID, &im.CorrelationID, &im.ObjectKey, &im.UploadedBy, &im.Verified, &im.PlateID, &im.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get image: %w", err)
	}
	return im, nil
}

func (s *PostgresStore) DeleteImage(ctx context.Context, id uuid.UUID) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM plate_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Users & sessions ---

func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, username, email, password, role) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	u := &models.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, password, role, created_at FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	u := &models.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, password, role, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) UpdateUserRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, userID)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateSession(ctx context.Context, sess *models.UserSession) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	if sess.ID == uuid.Nil {
		sess.ID = uuid.New()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO user_sessions (id, user_id, refresh_token, ip_address, user_agent, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`,
		sess.ID, sess.UserID, sess.RefreshToken, sess.IPAddress, sess.UserAgent, sess.ExpiresAt,
	).Scan(&sess.CreatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSessionByToken returns a live (unexpired) session or nil.
func (s *PostgresStore) GetSessionByToken(ctx context.Context, refreshToken string) (*models.UserSession, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	sess := &models.UserSession{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, refresh_token, ip_address, user_agent, expires_at, created_at
		 FROM user_sessions WHERE refresh_token = $1 AND expires_at > now()`, refreshToken,
	).Scan(&sess.ID, &sess.UserID, &sess.RefreshToken, &sess.IPAddress, &sess.UserAgent,
		&sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *PostgresStore) DeleteSessionByToken(ctx context.Context, refreshToken string) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM user_sessions WHERE refresh_token = $1`, refreshToken)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Cameras ---

func (s *PostgresStore) ListCameras(ctx context.Context) ([]models.Camera, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, id_camera, name, location, created_at FROM cameras ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list cameras: %w", err)
	}
	defer rows.Close()

	var cameras []models.Camera
	for rows.Next() {
		var c models.Camera
		if err := rows.Scan(&c.ID, &c.CameraID, &c.Name, &c.Location, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan camera: %w", err)
		}
		cameras = append(cameras, c)
	}
	return cameras, nil
}

func (s *PostgresStore) CreateCamera(ctx context.Context, c *models.Camera) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO cameras (id, id_camera, name, location) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		c.ID, c.CameraID, c.Name, c.Location,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create camera: %w", err)
	}
	return nil
}

// --- Watchlist & alerts ---

func (s *PostgresStore) ListWatchlist(ctx context.Context) ([]models.WatchlistEntry, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, plate, note, added_by, created_at FROM watchlists ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	var entries []models.WatchlistEntry
	for rows.Next() {
		var w models.WatchlistEntry
		if err := rows.Scan(&w.ID, &w.Plate, &w.Note, &w.AddedBy, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		entries = append(entries, w)
	}
	return entries, nil
}

func (s *PostgresStore) AddWatchlistEntry(ctx context.Context, w *models.WatchlistEntry) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO watchlists (id, plate, note, added_by) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		w.ID, w.Plate, w.Note, w.AddedBy,
	).Scan(&w.CreatedAt)
	if err != nil {
		return fmt.Errorf("add watchlist entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteWatchlistEntry(ctx context.Context, id uuid.UUID) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM watchlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete watchlist entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateAlert(ctx context.Context, a *models.Alert) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO alerts (id, watchlist_id, candidate_id, plate, camera_name, detected_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`,
		a.ID, a.WatchlistID, a.CandidateID, a.Plate, a.CameraName, a.DetectedAt,
	).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, watchlist_id, candidate_id, plate, camera_name, detected_at, created_at
		 FROM alerts ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.WatchlistID, &a.CandidateID, &a.Plate, &a.CameraName,
			&a.DetectedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

// --- Activity log ---

func (s *PostgresStore) InsertActivityLog(ctx context.Context, l *models.ActivityLog) error {
	if err := s.pacer.Wait(ctx); err != nil {
		return err
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO activity_logs (id, user_id, action, description, ip_address, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.UserID, l.Action, l.Description, l.IPAddress, l.UserAgent, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListActivityLogs(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 200
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, action, description, ip_address, user_agent, created_at
		 FROM activity_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()

	var logs []models.ActivityLog
	for rows.Next() {
		var l models.ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Description, &l.IPAddress,
			&l.UserAgent, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}
