package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/prepdesk/internal/db"
	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/alexanderramin/prepdesk/internal/persistence"
	"github.com/alexanderramin/prepdesk/internal/repository"
	"github.com/alexanderramin/prepdesk/internal/workspace"
)

type workspaceService struct {
	engine   *workspace.Engine
	adapter  *persistence.Adapter
	projects ProjectIndexService
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewWorkspaceService(
	engine *workspace.Engine,
	adapter *persistence.Adapter,
	projects ProjectIndexService,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) WorkspaceService {
	return &workspaceService{
		engine:   engine,
		adapter:  adapter,
		projects: projects,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *workspaceService) Create(ctx context.Context, title string) (sess *workspace.Session, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "create-workspace", time.Now().UTC(), fields, &err)

	sess = workspace.NewSession(s.engine)
	if strings.TrimSpace(title) != "" {
		if _, err = sess.Apply(workspace.RenameDocumentOp{Title: title}); err != nil {
			return nil, err
		}
	}
	fields["workspace_id"] = sess.ID()
	if _, err = s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *workspaceService) Open(ctx context.Context, id string) (result *OpenResult, err error) {
	fields := map[string]any{"workspace_id": id}
	defer observe(ctx, s.observer, "open-workspace", time.Now().UTC(), fields, &err)

	doc, err := s.adapter.Load(ctx, id)
	if errors.Is(err, domain.ErrCorrupt) {
		fields["recovered"] = true
		return &OpenResult{
			Session:   workspace.RecoverSession(s.engine, id),
			Recovered: true,
			Warning:   fmt.Sprintf("workspace %s could not be read (%v); started a blank document with the same id", id, err),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	active, err := s.adapter.LoadSelection(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OpenResult{Session: workspace.RestoreSession(s.engine, doc, active)}, nil
}

func (s *workspaceService) Save(ctx context.Context, sess *workspace.Session) (at time.Time, err error) {
	fields := map[string]any{"workspace_id": sess.ID()}
	defer observe(ctx, s.observer, "save-workspace", time.Now().UTC(), fields, &err)

	if err = restoreDefaultTitles(sess); err != nil {
		return time.Time{}, err
	}
	doc := sess.Document()
	active, _ := sess.Selection().ID()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		if at, err = s.persist(ctx, tx, doc); err != nil {
			return err
		}
		return s.adapter.WithStore(repository.NewSQLiteSlotStore(tx)).SaveSelection(ctx, doc.ID, active)
	})
	if err != nil {
		return time.Time{}, err
	}
	sess.MarkSaved(at)
	fields["notes"] = len(doc.Notes)
	return at, nil
}

func (s *workspaceService) Reset(ctx context.Context, sess *workspace.Session, clearPrevious bool) (next *workspace.Session, err error) {
	prev := sess.ID()
	fields := map[string]any{"previous_id": prev, "clear_previous": clearPrevious}
	defer observe(ctx, s.observer, "reset-workspace", time.Now().UTC(), fields, &err)

	next = workspace.RestoreSession(s.engine, sess.Document(), "")
	if _, err = next.Apply(workspace.ResetOp{}); err != nil {
		return nil, err
	}
	fields["workspace_id"] = next.ID()

	var at time.Time
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		if at, err = s.persist(ctx, tx, next.Document()); err != nil {
			return err
		}
		if !clearPrevious {
			return nil
		}
		if err := s.adapter.WithStore(repository.NewSQLiteSlotStore(tx)).Delete(ctx, prev); err != nil {
			return err
		}
		err = repository.NewSQLiteProjectIndexRepo(tx).Delete(ctx, prev)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	next.MarkSaved(at)
	return next, nil
}

func (s *workspaceService) Delete(ctx context.Context, id string) error {
	return s.projects.Remove(ctx, id)
}

// persist writes the snapshot and its summary through tx.
func (s *workspaceService) persist(ctx context.Context, tx db.DBTX, doc domain.Workspace) (time.Time, error) {
	at, err := s.adapter.WithStore(repository.NewSQLiteSlotStore(tx)).Save(ctx, doc)
	if err != nil {
		return time.Time{}, err
	}
	summary := domain.SummarizeWorkspace(doc, at)
	if err := repository.NewSQLiteProjectIndexRepo(tx).Upsert(ctx, &summary); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return at, nil
}

// restoreDefaultTitles re-applies default titles left blank while editing.
func restoreDefaultTitles(sess *workspace.Session) error {
	doc := sess.Document()
	if strings.TrimSpace(doc.Title) == "" {
		if _, err := sess.Apply(workspace.RenameDocumentOp{Title: domain.DefaultWorkspaceTitle}); err != nil {
			return err
		}
	}
	for _, n := range doc.Notes {
		if strings.TrimSpace(n.Title) != "" {
			continue
		}
		if _, err := sess.Apply(workspace.RenameNoteOp{NoteID: n.ID, Title: domain.DefaultNoteTitle}); err != nil {
			return err
		}
	}
	return nil
}
