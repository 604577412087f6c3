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
	ErrRosterMemberNotFound = errors.New("roster member not found")
	ErrRosterTeamMissing    = errors.New("roster member references a missing team")
)

type RosterRepository interface {
	Create(ctx context.Context, member *models.RosterMember) error
	GetByID(ctx context.Context, id int) (*models.RosterMember, error)
	ListByTeam(ctx context.Context, teamID int) ([]models.RosterMember, error)
	ListWithTeams(ctx context.Context) ([]models.RosterMember, error)
	Update(ctx context.Context, member *models.RosterMember) error
	Delete(ctx context.Context, id int) error
}

type postgresRosterRepository struct {
	db *sql.DB
}

func NewPostgresRosterRepository(db *sql.DB) RosterRepository {
	return &postgresRosterRepository{db: db}
}

func (r *postgresRosterRepository) Create(ctx context.Context, member *models.RosterMember) error {
	query := `INSERT INTO team_members (team_id, player_name, number)
	          VALUES ($1, $2, $3) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, member.TeamID, member.PlayerName, member.Number).Scan(&member.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrRosterTeamMissing
		}
		return fmt.Errorf("failed to create roster member: %w", err)
	}
	return nil
}

func (r *postgresRosterRepository) GetByID(ctx context.Context, id int) (*models.RosterMember, error) {
	query := `SELECT id, team_id, player_name, number FROM team_members WHERE id = $1`

	var member models.RosterMember
	err := r.db.QueryRowContext(ctx, query, id).Scan(&member.ID, &member.TeamID, &member.PlayerName, &member.Number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRosterMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *postgresRosterRepository) ListByTeam(ctx context.Context, teamID int) ([]models.RosterMember, error) {
	query := `SELECT id, team_id, player_name, number
	          FROM team_members WHERE team_id = $1
	          ORDER BY player_name ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster for team %d: %w", teamID, err)
	}
	defer rows.Close()

	members := make([]models.RosterMember, 0)
	for rows.Next() {
		var member models.RosterMember
		if err := rows.Scan(&member.ID, &member.TeamID, &member.PlayerName, &member.Number); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// ListWithTeams returns every roster member joined with its owning team,
// ordered by school name then player name. The join is a LEFT JOIN so a
// dangling team_id still yields a row, with Team left nil.
func (r *postgresRosterRepository) ListWithTeams(ctx context.Context) ([]models.RosterMember, error) {
	query := `SELECT m.id, m.team_id, m.player_name, m.number,
	                 t.id, t.category, t.team_group, t.school_name, t.headcoach, t.status, t.details, t.created_at
	          FROM team_members m
	          LEFT JOIN teams t ON m.team_id = t.id
	          ORDER BY t.school_name ASC NULLS LAST, m.player_name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster members: %w", err)
	}
	defer rows.Close()

	members := make([]models.RosterMember, 0)
	for rows.Next() {
		var member models.RosterMember
		var teamID sql.NullInt64
		var category, group, school, coach, status, details sql.NullString
		var createdAt sql.NullTime
		if err := rows.Scan(
			&member.ID, &member.TeamID, &member.PlayerName, &member.Number,
			&teamID, &category, &group, &school, &coach, &status, &details, &createdAt,
		); err != nil {
			return nil, err
		}
		if teamID.Valid {
			member.Team = &models.Team{
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
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *postgresRosterRepository) Update(ctx context.Context, member *models.RosterMember) error {
	query := `UPDATE team_members SET team_id = $1, player_name = $2, number = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, member.TeamID, member.PlayerName, member.Number, member.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrRosterTeamMissing
		}
		return fmt.Errorf("failed to update roster member %d: %w", member.ID, err)
	}
	return checkAffectedRows(result, ErrRosterMemberNotFound)
}

func (r *postgresRosterRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM team_members WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRosterMemberNotFound)
}
