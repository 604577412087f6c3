package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hansol-dev/leaguedesk/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamInvalidField = errors.New("field cannot be updated on teams")
)

// teamColumns whitelists the fields a single-field patch may touch. Anything
// not listed here is rejected before a query is built.
var teamColumns = map[string]string{
	"category":    "category",
	"team_group":  "team_group",
	"school_name": "school_name",
	"headcoach":   "headcoach",
	"status":      "status",
	"details":     "details",
}

type TeamFilter struct {
	Category string // empty means all categories
}

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, filter TeamFilter) ([]models.Team, error)
	ListCategories(ctx context.Context) ([]string, error)
	UpdateField(ctx context.Context, id int, field string, value any) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `INSERT INTO teams (category, team_group, school_name, headcoach, status, details)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.Category, team.Group, team.SchoolName, team.HeadCoach, team.Status, team.Details,
	).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT id, category, team_group, school_name, headcoach, status, details, created_at
	          FROM teams WHERE id = $1`

	var team models.Team
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID, &team.Category, &team.Group, &team.SchoolName,
		&team.HeadCoach, &team.Status, &team.Details, &team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context, filter TeamFilter) ([]models.Team, error) {
	query := `SELECT id, category, team_group, school_name, headcoach, status, details, created_at
	          FROM teams`
	args := []any{}
	if filter.Category != "" {
		query += ` WHERE category = $1`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY category ASC, team_group ASC, school_name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(
			&team.ID, &team.Category, &team.Group, &team.SchoolName,
			&team.HeadCoach, &team.Status, &team.Details, &team.CreatedAt,
		); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) ListCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM teams WHERE category <> '' ORDER BY category ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *postgresTeamRepository) UpdateField(ctx context.Context, id int, field string, value any) error {
	column, ok := teamColumns[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTeamInvalidField, field)
	}

	query := fmt.Sprintf(`UPDATE teams SET %s = $1 WHERE id = $2`, column)
	result, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("failed to update team field %q: %w", field, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	// Deletes do not cascade to team_members or game_records; rows that
	// still reference this team become dangling and listings render the
	// placeholder instead.
	query := `DELETE FROM teams WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
