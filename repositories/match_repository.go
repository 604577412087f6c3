package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hansol-dev/leaguedesk/models"
	"github.com/lib/pq"
)

var (
	ErrMatchEntryNotFound = errors.New("match entry not found")
	ErrMatchInvalidField  = errors.New("field cannot be updated on match entries")
)

var matchEntryColumns = map[string]string{
	"game_title": "game_title",
	"side":       "side",
	"details":    "details",
	"gametime":   "gametime",
}

type MatchEntryRepository interface {
	Create(ctx context.Context, entry *models.MatchEntry) error
	GetByID(ctx context.Context, id int) (*models.MatchEntry, error)
	ListWithTeams(ctx context.Context) ([]models.MatchEntry, error)
	ListGameTitles(ctx context.Context) ([]string, error)
	UpdateField(ctx context.Context, id int, field string, value any) error
	UpdatePhotoURL(ctx context.Context, id int, photoURL *string) error
	Delete(ctx context.Context, id int) error
}

type postgresMatchEntryRepository struct {
	db *sql.DB
}

func NewPostgresMatchEntryRepository(db *sql.DB) MatchEntryRepository {
	return &postgresMatchEntryRepository{db: db}
}

func (r *postgresMatchEntryRepository) Create(ctx context.Context, entry *models.MatchEntry) error {
	query := `INSERT INTO game_records (game_id, game_title, side, team_id, details, gametime, photo)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		entry.GameID, entry.GameTitle, entry.Side, entry.TeamID, entry.Details, entry.GameTime, entry.PhotoURL,
	).Scan(&entry.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to create match entry: %w", err)
	}
	return nil
}

func (r *postgresMatchEntryRepository) GetByID(ctx context.Context, id int) (*models.MatchEntry, error) {
	query := `SELECT id, game_id, game_title, side, team_id, details, gametime, photo
	          FROM game_records WHERE id = $1`

	var entry models.MatchEntry
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID, &entry.GameID, &entry.GameTitle, &entry.Side,
		&entry.TeamID, &entry.Details, &entry.GameTime, &entry.PhotoURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// ListWithTeams returns all match entries newest first, each left-joined with
// its owning team. Entries whose team no longer exists come back with Team
// nil; rendering the placeholder is the caller's job.
func (r *postgresMatchEntryRepository) ListWithTeams(ctx context.Context) ([]models.MatchEntry, error) {
	query := `SELECT e.id, e.game_id, e.game_title, e.side, e.team_id, e.details, e.gametime, e.photo,
	                 t.id, t.category, t.team_group, t.school_name, t.headcoach, t.status, t.details, t.created_at
	          FROM game_records e
	          LEFT JOIN teams t ON e.team_id = t.id
	          ORDER BY e.gametime DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list match entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.MatchEntry, 0)
	for rows.Next() {
		var entry models.MatchEntry
		var teamID sql.NullInt64
		var category, group, school, coach, status, details sql.NullString
		var createdAt sql.NullTime
		if err := rows.Scan(
			&entry.ID, &entry.GameID, &entry.GameTitle, &entry.Side,
			&entry.TeamID, &entry.Details, &entry.GameTime, &entry.PhotoURL,
			&teamID, &category, &group, &school, &coach, &status, &details, &createdAt,
		); err != nil {
			return nil, err
		}
		if teamID.Valid {
			entry.Team = &models.Team{
				ID:         int(teamID.Int64),
				Category:   category.String,
				Group:      group.String,
				SchoolName: school.String,
				HeadCoach:  coach.String,
				Status:     status.String,
				Details:    details.String,
				CreatedAt:  createdAt.Time,
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *postgresMatchEntryRepository) ListGameTitles(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT game_title FROM game_records WHERE game_title <> '' ORDER BY game_title ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := make([]string, 0)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

func (r *postgresMatchEntryRepository) UpdateField(ctx context.Context, id int, field string, value any) error {
	column, ok := matchEntryColumns[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrMatchInvalidField, field)
	}

	query := fmt.Sprintf(`UPDATE game_records SET %s = $1 WHERE id = $2`, column)
	result, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("failed to update match entry field %q: %w", field, err)
	}
	return checkAffectedRows(result, ErrMatchEntryNotFound)
}

func (r *postgresMatchEntryRepository) UpdatePhotoURL(ctx context.Context, id int, photoURL *string) error {
	query := `UPDATE game_records SET photo = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, photoURL, id)
	if err != nil {
		return fmt.Errorf("failed to update match entry %d photo: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchEntryNotFound)
}

func (r *postgresMatchEntryRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM game_records WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchEntryNotFound)
}
