package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KnightCoder27/Skael/internal/ingest"
	"github.com/KnightCoder27/Skael/internal/model"
)

// UserStore persists users and their skill/location associations.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore returns a UserStore over pool.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// UserUpdate carries a partial profile update; nil fields are left untouched.
type UserUpdate struct {
	Username            *string
	PhoneNumber         *string
	DesiredJobRole      *string
	Skills              *string // comma-separated, normalised before association
	Experience          *int
	PreferredLocations  *string // comma-separated
	RemotePreference    *model.RemotePreference
	ProfessionalSummary *string
	ExpectedSalary      *string
	Resume              *string
	PasswordHash        *string
}

// Create registers a new user and returns the generated id.
// The username is stored lowercased, matching how profiles are searched.
func (s *UserStore) Create(ctx context.Context, username, email string, phone *string, passwordHash string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (user_name, email_id, phone_number, password, joined_date)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		strings.ToLower(username), email, phone, passwordHash, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("user insert: %w", err)
	}
	return id, nil
}

// GetByID loads a full profile including skill and location names.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	var pref *string
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_name, phone_number, email_id, password, desired_job_role,
		        experience, remote_preference, professional_summary,
		        expected_salary, resume, joined_date
		 FROM users WHERE id = $1`, id,
	).Scan(
		&u.ID, &u.UserName, &u.PhoneNumber, &u.EmailID, &u.PasswordHash,
		&u.DesiredJobRole, &u.Experience, &pref, &u.ProfessionalSummary,
		&u.ExpectedSalary, &u.Resume, &u.JoinedDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	if pref != nil {
		if p, perr := model.ParseRemotePreference(*pref); perr == nil {
			u.RemotePreference = &p
		}
	}

	if u.Skills, err = s.skillNames(ctx, id); err != nil {
		return nil, err
	}
	if u.PreferredLocations, err = s.locationNames(ctx, id); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail loads the credential fields used by login.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_name, email_id, password FROM users WHERE email_id = $1`,
		email,
	).Scan(&u.ID, &u.UserName, &u.EmailID, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup by email: %w", err)
	}
	return &u, nil
}

// Update applies a partial profile update. Skill and location lists replace
// the user's associations wholesale; role and summary are lowercased the
// same way searches are.
func (s *UserStore) Update(ctx context.Context, id int64, upd UserUpdate) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("update begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists int64
	if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1`, id).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update lookup: %w", err)
	}

	set := func(column string, value any) error {
		_, err := tx.Exec(ctx,
			fmt.Sprintf(`UPDATE users SET %s = $1 WHERE id = $2`, column), value, id)
		if err != nil {
			return fmt.Errorf("update %s: %w", column, err)
		}
		return nil
	}

	if upd.Username != nil {
		if err := set("user_name", *upd.Username); err != nil {
			return err
		}
	}
	if upd.PhoneNumber != nil {
		if err := set("phone_number", *upd.PhoneNumber); err != nil {
			return err
		}
	}
	if upd.DesiredJobRole != nil {
		if err := set("desired_job_role", strings.ToLower(*upd.DesiredJobRole)); err != nil {
			return err
		}
	}
	if upd.Experience != nil {
		if err := set("experience", *upd.Experience); err != nil {
			return err
		}
	}
	if upd.RemotePreference != nil {
		if err := set("remote_preference", string(*upd.RemotePreference)); err != nil {
			return err
		}
	}
	if upd.ProfessionalSummary != nil {
		if err := set("professional_summary", strings.ToLower(*upd.ProfessionalSummary)); err != nil {
			return err
		}
	}
	if upd.ExpectedSalary != nil {
		if err := set("expected_salary", *upd.ExpectedSalary); err != nil {
			return err
		}
	}
	if upd.Resume != nil {
		if err := set("resume", *upd.Resume); err != nil {
			return err
		}
	}
	if upd.PasswordHash != nil {
		if err := set("password", *upd.PasswordHash); err != nil {
			return err
		}
	}

	if upd.Skills != nil {
		if err := replaceSkills(ctx, tx, id, NormalizeCSV(*upd.Skills)); err != nil {
			return err
		}
	}
	if upd.PreferredLocations != nil {
		if err := replaceLocations(ctx, tx, id, NormalizeCSV(*upd.PreferredLocations)); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("update commit: %w", err)
	}
	return nil
}

// Delete removes a user; association rows cascade.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("user delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchProfiles returns users whose profile is complete enough to drive a
// saved-search ingestion run (a desired role is set).
func (s *UserStore) SearchProfiles(ctx context.Context) ([]model.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id FROM users WHERE desired_job_role IS NOT NULL AND desired_job_role <> ''`)
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

// replaceSkills swaps the user's skill associations for the given names,
// creating unseen technologies the same way ingestion does: identity is the
// case-insensitive name.
func replaceSkills(ctx context.Context, tx pgx.Tx, userID int64, names []string) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM user_skills_association WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear skills: %w", err)
	}
	for _, name := range names {
		var techID int64
		err := tx.QueryRow(ctx,
			`SELECT id FROM technologies WHERE LOWER(technology_name) = LOWER($1)`, name,
		).Scan(&techID)
		if errors.Is(err, pgx.ErrNoRows) {
			err = tx.QueryRow(ctx,
				`INSERT INTO technologies (technology_name, technology_slug)
				 VALUES ($1, $2) RETURNING id`,
				name, ingest.Slugify(name),
			).Scan(&techID)
		}
		if err != nil {
			return fmt.Errorf("skill resolve %q: %w", name, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_skills_association (user_id, technology_id)
			 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, techID,
		); err != nil {
			return fmt.Errorf("skill associate %q: %w", name, err)
		}
	}
	return nil
}

// replaceLocations swaps the user's preferred-location associations.
func replaceLocations(ctx context.Context, tx pgx.Tx, userID int64, names []string) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM user_preferred_locations_association WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear locations: %w", err)
	}
	for _, name := range names {
		var locID int64
		err := tx.QueryRow(ctx,
			`SELECT id FROM location WHERE name = $1`, name,
		).Scan(&locID)
		if errors.Is(err, pgx.ErrNoRows) {
			err = tx.QueryRow(ctx,
				`INSERT INTO location (name) VALUES ($1) RETURNING id`, name,
			).Scan(&locID)
		}
		if err != nil {
			return fmt.Errorf("location resolve %q: %w", name, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_preferred_locations_association (user_id, location_id)
			 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, locID,
		); err != nil {
			return fmt.Errorf("location associate %q: %w", name, err)
		}
	}
	return nil
}

func (s *UserStore) skillNames(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT t.technology_name
		 FROM technologies t
		 JOIN user_skills_association usa ON usa.technology_id = t.id
		 WHERE usa.user_id = $1
		 ORDER BY t.technology_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("skill names: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}

func (s *UserStore) locationNames(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT l.name
		 FROM location l
		 JOIN user_preferred_locations_association upla ON upla.location_id = l.id
		 WHERE upla.user_id = $1
		 ORDER BY l.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("location names: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}

func collectStrings(rows pgx.Rows) ([]string, error) {
	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// NormalizeCSV splits a comma-separated list into lowercase, trimmed,
// non-empty tokens — the canonical form for skills and locations.
func NormalizeCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
