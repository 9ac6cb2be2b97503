package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/prepdesk/internal/db"
	"github.com/alexanderramin/prepdesk/internal/domain"
	"github.com/alexanderramin/prepdesk/internal/persistence"
	"github.com/alexanderramin/prepdesk/internal/repository"
)

type projectIndexService struct {
	index    repository.ProjectIndexRepo
	adapter  *persistence.Adapter
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProjectIndexService(
	index repository.ProjectIndexRepo,
	adapter *persistence.Adapter,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ProjectIndexService {
	return &projectIndexService{
		index:    index,
		adapter:  adapter,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *projectIndexService) List(ctx context.Context) ([]*domain.ProjectSummary, error) {
	list, err := s.index.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return list, nil
}

func (s *projectIndexService) Get(ctx context.Context, id string) (*domain.ProjectSummary, error) {
	return s.index.GetByID(ctx, id)
}

func (s *projectIndexService) Remove(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "remove-project", time.Now().UTC(), map[string]any{"workspace_id": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectIndexRepo(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.adapter.WithStore(repository.NewSQLiteSlotStore(tx)).Delete(ctx, id)
	})
}

// Reindex rebuilds every summary from the stored snapshots. Unreadable
// snapshots are reported and left in place; summaries without a snapshot
// are dropped.
func (s *projectIndexService) Reindex(ctx context.Context) (result *ReindexResult, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "reindex-projects", time.Now().UTC(), fields, &err)

	result = &ReindexResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		ad := s.adapter.WithStore(repository.NewSQLiteSlotStore(tx))
		index := repository.NewSQLiteProjectIndexRepo(tx)

		ids, err := ad.ListIDs(ctx)
		if err != nil {
			return err
		}
		stored := make(map[string]bool, len(ids))
		for _, id := range ids {
			stored[id] = true
			doc, err := ad.Load(ctx, id)
			if errors.Is(err, domain.ErrCorrupt) {
				result.Corrupt = append(result.Corrupt, id)
				continue
			}
			if err != nil {
				return err
			}
			modified := time.Now().UTC()
			if doc.LastSavedAt != nil {
				modified = *doc.LastSavedAt
			}
			summary := domain.SummarizeWorkspace(doc, modified)
			if err := index.Upsert(ctx, &summary); err != nil {
				return err
			}
			result.Indexed++
		}

		existing, err := index.List(ctx)
		if err != nil {
			return err
		}
		for _, summary := range existing {
			if stored[summary.ID] {
				continue
			}
			if err := index.Delete(ctx, summary.ID); err != nil {
				return err
			}
			result.Removed++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["indexed"] = result.Indexed
	fields["removed"] = result.Removed
	fields["corrupt"] = len(result.Corrupt)
	return result, nil
}
