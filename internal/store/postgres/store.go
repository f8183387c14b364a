package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corkboard/corkboard/internal/domain"
)

type Store struct {
	pool        *pgxpool.Pool
	users       *UserRepo
	projects    *ProjectRepo
	boards      *BoardRepo
	members     *MemberRepo
	columns     *ColumnRepo
	cards       *CardRepo
	labels      *LabelRepo
	comments    *CommentRepo
	attachments *AttachmentRepo
	audit       *AuditRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:        pool,
		users:       NewUserRepo(pool),
		projects:    NewProjectRepo(pool),
		boards:      NewBoardRepo(pool),
		members:     NewMemberRepo(pool),
		columns:     NewColumnRepo(pool),
		cards:       NewCardRepo(pool),
		labels:      NewLabelRepo(pool),
		comments:    NewCommentRepo(pool),
		attachments: NewAttachmentRepo(pool),
		audit:       NewAuditRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Users() domain.UserRepository             { return s.users }
func (s *Store) Projects() domain.ProjectRepository       { return s.projects }
func (s *Store) Boards() domain.BoardRepository           { return s.boards }
func (s *Store) Members() domain.MemberRepository         { return s.members }
func (s *Store) Columns() domain.ColumnRepository         { return s.columns }
func (s *Store) Cards() domain.CardRepository             { return s.cards }
func (s *Store) Labels() domain.LabelRepository           { return s.labels }
func (s *Store) Comments() domain.CommentRepository       { return s.comments }
func (s *Store) Attachments() domain.AttachmentRepository { return s.attachments }
func (s *Store) Audit() domain.AuditRepository            { return s.audit }
