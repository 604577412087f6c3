package services

import (
	"context"
	"io"
	"sync"

	"github.com/hansol-dev/leaguedesk/models"
	"github.com/hansol-dev/leaguedesk/repositories"
	"github.com/hansol-dev/leaguedesk/storage"
)

type fieldUpdate struct {
	ID    int
	Field string
	Value any
}

type fakeTeamRepo struct {
	teams map[int]*models.Team

	updateErr error
	updates   []fieldUpdate
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	repo := &fakeTeamRepo{teams: make(map[int]*models.Team)}
	for _, t := range teams {
		repo.teams[t.ID] = t
	}
	return repo
}

func (f *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	team.ID = len(f.teams) + 1
	f.teams[team.ID] = team
	return nil
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return team, nil
}

func (f *fakeTeamRepo) List(ctx context.Context, filter repositories.TeamFilter) ([]models.Team, error) {
	var out []models.Team
	for _, t := range f.teams {
		if filter.Category == "" || t.Category == filter.Category {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) ListCategories(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, t := range f.teams {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) UpdateField(ctx context.Context, id int, field string, value any) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	f.updates = append(f.updates, fieldUpdate{ID: id, Field: field, Value: value})
	return nil
}

func (f *fakeTeamRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(f.teams, id)
	return nil
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	entries map[int]*models.MatchEntry
	nextID  int

	createErr    error
	updateErr    error
	photoErr     error
	updates      []fieldUpdate
	photoUpdates []fieldUpdate
	created      []*models.MatchEntry
	deleted      []int
}

func newFakeMatchRepo(entries ...*models.MatchEntry) *fakeMatchRepo {
	repo := &fakeMatchRepo{entries: make(map[int]*models.MatchEntry)}
	for _, e := range entries {
		repo.entries[e.ID] = e
		if e.ID > repo.nextID {
			repo.nextID = e.ID
		}
	}
	return repo
}

func (f *fakeMatchRepo) Create(ctx context.Context, entry *models.MatchEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	entry.ID = f.nextID
	f.entries[entry.ID] = entry
	f.created = append(f.created, entry)
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.MatchEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[id]
	if !ok {
		return nil, repositories.ErrMatchEntryNotFound
	}
	return entry, nil
}

func (f *fakeMatchRepo) ListWithTeams(ctx context.Context) ([]models.MatchEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MatchEntry
	for _, e := range f.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeMatchRepo) ListGameTitles(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, e := range f.entries {
		if !seen[e.GameTitle] {
			seen[e.GameTitle] = true
			out = append(out, e.GameTitle)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) UpdateField(ctx context.Context, id int, field string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.entries[id]; !ok {
		return repositories.ErrMatchEntryNotFound
	}
	f.updates = append(f.updates, fieldUpdate{ID: id, Field: field, Value: value})
	return nil
}

func (f *fakeMatchRepo) UpdatePhotoURL(ctx context.Context, id int, photoURL *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.photoErr != nil {
		return f.photoErr
	}
	entry, ok := f.entries[id]
	if !ok {
		return repositories.ErrMatchEntryNotFound
	}
	entry.PhotoURL = photoURL
	f.photoUpdates = append(f.photoUpdates, fieldUpdate{ID: id, Field: "photo", Value: photoURL})
	return nil
}

func (f *fakeMatchRepo) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[id]; !ok {
		return repositories.ErrMatchEntryNotFound
	}
	delete(f.entries, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeRosterRepo struct {
	members map[int]*models.RosterMember
}

func newFakeRosterRepo(members ...*models.RosterMember) *fakeRosterRepo {
	repo := &fakeRosterRepo{members: make(map[int]*models.RosterMember)}
	for _, m := range members {
		repo.members[m.ID] = m
	}
	return repo
}

func (f *fakeRosterRepo) Create(ctx context.Context, member *models.RosterMember) error {
	member.ID = len(f.members) + 1
	f.members[member.ID] = member
	return nil
}

func (f *fakeRosterRepo) GetByID(ctx context.Context, id int) (*models.RosterMember, error) {
	member, ok := f.members[id]
	if !ok {
		return nil, repositories.ErrRosterMemberNotFound
	}
	return member, nil
}

func (f *fakeRosterRepo) ListByTeam(ctx context.Context, teamID int) ([]models.RosterMember, error) {
	var out []models.RosterMember
	for _, m := range f.members {
		if m.TeamID == teamID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeRosterRepo) ListWithTeams(ctx context.Context) ([]models.RosterMember, error) {
	var out []models.RosterMember
	for _, m := range f.members {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeRosterRepo) Update(ctx context.Context, member *models.RosterMember) error {
	if _, ok := f.members[member.ID]; !ok {
		return repositories.ErrRosterMemberNotFound
	}
	f.members[member.ID] = member
	return nil
}

func (f *fakeRosterRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.members[id]; !ok {
		return repositories.ErrRosterMemberNotFound
	}
	delete(f.members, id)
	return nil
}

type uploadCall struct {
	Key         string
	ContentType string
	Opts        storage.UploadOptions
	Body        string
}

// fakeUploader records every storage call in order, in ops, as
// "upload:<key>" and "delete:<key>" entries.
type fakeUploader struct {
	mu      sync.Mutex
	uploads []uploadCall
	deletes []string
	ops     []string

	uploadErr error
	deleteErr error
	baseURL   string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{baseURL: "https://cdn.example.com"}
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader, opts storage.UploadOptions) (*storage.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	f.uploads = append(f.uploads, uploadCall{Key: key, ContentType: contentType, Opts: opts, Body: string(body)})
	f.ops = append(f.ops, "upload:"+key)
	return &storage.UploadResult{Key: key, Location: f.publicURL(key)}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	f.ops = append(f.ops, "delete:"+key)
	return f.deleteErr
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return f.publicURL(key)
}

func (f *fakeUploader) publicURL(key string) string {
	return f.baseURL + "/" + key
}

type fakeHub struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeHub) Broadcast(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeHub) Events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}
