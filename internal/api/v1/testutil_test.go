package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/corkboard/corkboard/internal/domain"
	"github.com/corkboard/corkboard/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers: inject the authenticated user for DoCtx
// ---------------------------------------------------------------------------

func userCtx(userID uuid.UUID) context.Context {
	return middleware.WithUserID(context.Background(), userID)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	users       domain.UserRepository
	projects    domain.ProjectRepository
	boards      domain.BoardRepository
	members     domain.MemberRepository
	columns     domain.ColumnRepository
	cards       domain.CardRepository
	labels      domain.LabelRepository
	comments    domain.CommentRepository
	attachments domain.AttachmentRepository
	audit       domain.AuditRepository
}

func (m *mockDataStore) Users() domain.UserRepository             { return m.users }
func (m *mockDataStore) Projects() domain.ProjectRepository       { return m.projects }
func (m *mockDataStore) Boards() domain.BoardRepository           { return m.boards }
func (m *mockDataStore) Members() domain.MemberRepository         { return m.members }
func (m *mockDataStore) Columns() domain.ColumnRepository         { return m.columns }
func (m *mockDataStore) Cards() domain.CardRepository             { return m.cards }
func (m *mockDataStore) Labels() domain.LabelRepository           { return m.labels }
func (m *mockDataStore) Comments() domain.CommentRepository       { return m.comments }
func (m *mockDataStore) Attachments() domain.AttachmentRepository { return m.attachments }
func (m *mockDataStore) Audit() domain.AuditRepository            { return m.audit }

// newMockStore returns a store whose audit repo accepts everything, since
// most handlers record entries as a side effect.
func newMockStore() *mockDataStore {
	return &mockDataStore{
		audit: &mockAuditRepo{
			recordFunc: func(_ context.Context, _ *domain.AuditEntry) error { return nil },
		},
	}
}

// memberOf wires the Members() repo so userID holds role on boardID and
// everyone else is rejected.
func (m *mockDataStore) memberOf(boardID, userID uuid.UUID, role domain.MemberRole) {
	m.members = &mockMemberRepo{
		getRoleFunc: func(_ context.Context, b, u uuid.UUID) (domain.MemberRole, error) {
			if b == boardID && u == userID {
				return role, nil
			}
			return "", domain.ErrForbidden
		},
	}
}

// ---------------------------------------------------------------------------
// Mock BoardCache: a map-backed cache that records invalidations
// ---------------------------------------------------------------------------

type mockBoardCache struct {
	entries     map[uuid.UUID][]byte
	invalidated []uuid.UUID
	cleaned     []uuid.UUID
}

func newMockCache() *mockBoardCache {
	return &mockBoardCache{entries: make(map[uuid.UUID][]byte)}
}

func (m *mockBoardCache) CacheBoard(_ context.Context, boardID uuid.UUID, data []byte) error {
	m.entries[boardID] = data
	return nil
}

func (m *mockBoardCache) CachedBoard(_ context.Context, boardID uuid.UUID) ([]byte, error) {
	if data, ok := m.entries[boardID]; ok {
		return data, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockBoardCache) InvalidateBoard(_ context.Context, boardID uuid.UUID) error {
	delete(m.entries, boardID)
	m.invalidated = append(m.invalidated, boardID)
	return nil
}

func (m *mockBoardCache) CleanupBoard(_ context.Context, boardID uuid.UUID) error {
	delete(m.entries, boardID)
	m.cleaned = append(m.cleaned, boardID)
	return nil
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc     func(ctx context.Context, u *domain.User) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	getByIDsFunc   func(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
	updateFunc     func(ctx context.Context, u *domain.User) error
	deleteFunc     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error { return m.createFunc(ctx, u) }
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}
func (m *mockUserRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	return m.getByIDsFunc(ctx, ids)
}
func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error { return m.updateFunc(ctx, u) }
func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error   { return m.deleteFunc(ctx, id) }

// ---------------------------------------------------------------------------
// Mock ProjectRepository
// ---------------------------------------------------------------------------

type mockProjectRepo struct {
	createFunc      func(ctx context.Context, p *domain.Project) error
	getByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	listByOwnerFunc func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error)
	updateFunc      func(ctx context.Context, p *domain.Project) error
	deleteFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	return m.createFunc(ctx, p)
}
func (m *mockProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockProjectRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error) {
	return m.listByOwnerFunc(ctx, ownerID)
}
func (m *mockProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	return m.updateFunc(ctx, p)
}
func (m *mockProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock BoardRepository
// ---------------------------------------------------------------------------

type mockBoardRepo struct {
	createFunc        func(ctx context.Context, b *domain.Board) error
	getByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	listByUserFunc    func(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error)
	listByProjectFunc func(ctx context.Context, projectID uuid.UUID) ([]*domain.Board, error)
	updateFunc        func(ctx context.Context, b *domain.Board) error
	deleteFunc        func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBoardRepo) Create(ctx context.Context, b *domain.Board) error {
	return m.createFunc(ctx, b)
}
func (m *mockBoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockBoardRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	return m.listByUserFunc(ctx, userID)
}
func (m *mockBoardRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Board, error) {
	return m.listByProjectFunc(ctx, projectID)
}
func (m *mockBoardRepo) Update(ctx context.Context, b *domain.Board) error {
	return m.updateFunc(ctx, b)
}
func (m *mockBoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock MemberRepository
// ---------------------------------------------------------------------------

type mockMemberRepo struct {
	addFunc         func(ctx context.Context, m *domain.BoardMember) error
	removeFunc      func(ctx context.Context, boardID, userID uuid.UUID) error
	listByBoardFunc func(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMember, error)
	getRoleFunc     func(ctx context.Context, boardID, userID uuid.UUID) (domain.MemberRole, error)
}

func (m *mockMemberRepo) Add(ctx context.Context, member *domain.BoardMember) error {
	return m.addFunc(ctx, member)
}
func (m *mockMemberRepo) Remove(ctx context.Context, boardID, userID uuid.UUID) error {
	return m.removeFunc(ctx, boardID, userID)
}
func (m *mockMemberRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMember, error) {
	return m.listByBoardFunc(ctx, boardID)
}
func (m *mockMemberRepo) GetRole(ctx context.Context, boardID, userID uuid.UUID) (domain.MemberRole, error) {
	return m.getRoleFunc(ctx, boardID, userID)
}

// ---------------------------------------------------------------------------
// Mock ColumnRepository
// ---------------------------------------------------------------------------

type mockColumnRepo struct {
	createFunc      func(ctx context.Context, c *domain.Column) error
	getByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Column, error)
	listByBoardFunc func(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error)
	renameFunc      func(ctx context.Context, id uuid.UUID, title string) error
	moveFunc        func(ctx context.Context, id uuid.UUID, newPosition int) (*domain.Column, error)
	deleteFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockColumnRepo) Create(ctx context.Context, c *domain.Column) error {
	return m.createFunc(ctx, c)
}
func (m *mockColumnRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockColumnRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error) {
	return m.listByBoardFunc(ctx, boardID)
}
func (m *mockColumnRepo) Rename(ctx context.Context, id uuid.UUID, title string) error {
	return m.renameFunc(ctx, id, title)
}
func (m *mockColumnRepo) Move(ctx context.Context, id uuid.UUID, newPosition int) (*domain.Column, error) {
	return m.moveFunc(ctx, id, newPosition)
}
func (m *mockColumnRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock CardRepository
// ---------------------------------------------------------------------------

type mockCardRepo struct {
	createFunc       func(ctx context.Context, c *domain.Card) error
	getByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	listByColumnFunc func(ctx context.Context, columnID uuid.UUID) ([]*domain.Card, error)
	updateFunc       func(ctx context.Context, c *domain.Card) error
	assignFunc       func(ctx context.Context, id uuid.UUID, assigneeID *uuid.UUID) error
	moveFunc         func(ctx context.Context, id uuid.UUID, mv domain.CardMove) (*domain.Card, error)
	deleteFunc       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCardRepo) Create(ctx context.Context, c *domain.Card) error {
	return m.createFunc(ctx, c)
}
func (m *mockCardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockCardRepo) ListByColumn(ctx context.Context, columnID uuid.UUID) ([]*domain.Card, error) {
	return m.listByColumnFunc(ctx, columnID)
}
func (m *mockCardRepo) Update(ctx context.Context, c *domain.Card) error {
	return m.updateFunc(ctx, c)
}
func (m *mockCardRepo) Assign(ctx context.Context, id uuid.UUID, assigneeID *uuid.UUID) error {
	return m.assignFunc(ctx, id, assigneeID)
}
func (m *mockCardRepo) Move(ctx context.Context, id uuid.UUID, mv domain.CardMove) (*domain.Card, error) {
	return m.moveFunc(ctx, id, mv)
}
func (m *mockCardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock LabelRepository
// ---------------------------------------------------------------------------

type mockLabelRepo struct {
	createFunc      func(ctx context.Context, l *domain.Label) error
	getByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Label, error)
	listByBoardFunc func(ctx context.Context, boardID uuid.UUID) ([]*domain.Label, error)
	updateFunc      func(ctx context.Context, l *domain.Label) error
	deleteFunc      func(ctx context.Context, id uuid.UUID) error
	attachFunc      func(ctx context.Context, cardID, labelID uuid.UUID) error
	detachFunc      func(ctx context.Context, cardID, labelID uuid.UUID) error
	listByCardFunc  func(ctx context.Context, cardID uuid.UUID) ([]*domain.Label, error)
}

func (m *mockLabelRepo) Create(ctx context.Context, l *domain.Label) error {
	return m.createFunc(ctx, l)
}
func (m *mockLabelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Label, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockLabelRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Label, error) {
	return m.listByBoardFunc(ctx, boardID)
}
func (m *mockLabelRepo) Update(ctx context.Context, l *domain.Label) error {
	return m.updateFunc(ctx, l)
}
func (m *mockLabelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}
func (m *mockLabelRepo) Attach(ctx context.Context, cardID, labelID uuid.UUID) error {
	return m.attachFunc(ctx, cardID, labelID)
}
func (m *mockLabelRepo) Detach(ctx context.Context, cardID, labelID uuid.UUID) error {
	return m.detachFunc(ctx, cardID, labelID)
}
func (m *mockLabelRepo) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.Label, error) {
	return m.listByCardFunc(ctx, cardID)
}

// ---------------------------------------------------------------------------
// Mock CommentRepository
// ---------------------------------------------------------------------------

type mockCommentRepo struct {
	createFunc     func(ctx context.Context, c *domain.Comment) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	listByCardFunc func(ctx context.Context, cardID uuid.UUID) ([]*domain.Comment, error)
	updateFunc     func(ctx context.Context, c *domain.Comment) error
	deleteFunc     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	return m.createFunc(ctx, c)
}
func (m *mockCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockCommentRepo) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.Comment, error) {
	return m.listByCardFunc(ctx, cardID)
}
func (m *mockCommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	return m.updateFunc(ctx, c)
}
func (m *mockCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock AttachmentRepository
// ---------------------------------------------------------------------------

type mockAttachmentRepo struct {
	createFunc     func(ctx context.Context, a *domain.Attachment) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	listByCardFunc func(ctx context.Context, cardID uuid.UUID) ([]*domain.Attachment, error)
	deleteFunc     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockAttachmentRepo) Create(ctx context.Context, a *domain.Attachment) error {
	return m.createFunc(ctx, a)
}
func (m *mockAttachmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockAttachmentRepo) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.Attachment, error) {
	return m.listByCardFunc(ctx, cardID)
}
func (m *mockAttachmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock AuditRepository
// ---------------------------------------------------------------------------

type mockAuditRepo struct {
	recordFunc         func(ctx context.Context, e *domain.AuditEntry) error
	listByBoardFunc    func(ctx context.Context, boardID uuid.UUID, limit, offset int) ([]*domain.AuditEntry, error)
	listByResourceFunc func(ctx context.Context, boardID uuid.UUID, resource string, resourceID uuid.UUID) ([]*domain.AuditEntry, error)
}

func (m *mockAuditRepo) Record(ctx context.Context, e *domain.AuditEntry) error {
	return m.recordFunc(ctx, e)
}
func (m *mockAuditRepo) ListByBoard(ctx context.Context, boardID uuid.UUID, limit, offset int) ([]*domain.AuditEntry, error) {
	return m.listByBoardFunc(ctx, boardID, limit, offset)
}
func (m *mockAuditRepo) ListByResource(ctx context.Context, boardID uuid.UUID, resource string, resourceID uuid.UUID) ([]*domain.AuditEntry, error) {
	return m.listByResourceFunc(ctx, boardID, resource, resourceID)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc     func(ctx context.Context, email, password, name string) (*domain.User, error)
	loginFunc        func(ctx context.Context, email, password string) (string, string, error)
	refreshTokenFunc func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	return m.registerFunc(ctx, email, password, name)
}
func (m *mockAuthService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error) {
	return m.loginFunc(ctx, email, password)
}
func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}
