// Package app implements the tracker actions on top of a storage.Store.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/tasktrack/internal/platform/otel"
	"github.com/louisbranch/tasktrack/internal/tracker/storage"
)

const tracerName = "github.com/louisbranch/tasktrack/internal/tracker/app"

// SeedResult holds the ids generated by Seed.
type SeedResult struct {
	ProjectID int64
	TaskIDs   []int64
}

// Report is the output of the select action.
type Report struct {
	Priority   int64
	ByPriority []storage.Task
	All        []storage.Task
}

// Service runs tracker actions against one store.
type Service struct {
	store  storage.Store
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewService returns a Service over store.
func NewService(store storage.Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// InitSchema creates the tables. Failures are logged and returned, but a
// failing table does not stop the others.
func (s *Service) InitSchema(ctx context.Context) (err error) {
	ctx, end := s.start(ctx, "InitSchema")
	defer func() { end(err) }()

	if err := s.store.InitSchema(ctx); err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create tables")
		return err
	}
	s.logger.Debug().Msg("created tables")
	return nil
}

// Seed inserts the demonstration project and its tasks in one transaction.
func (s *Service) Seed(ctx context.Context) (result SeedResult, err error) {
	ctx, end := s.start(ctx, "Seed")
	defer func() { end(err) }()

	err = s.store.InTx(ctx, func(tx storage.Tx) error {
		projectID, err := tx.CreateProject(ctx, DemoProject())
		if err != nil {
			return err
		}
		result = SeedResult{ProjectID: projectID}
		for _, task := range DemoTasks(projectID) {
			taskID, err := tx.CreateTask(ctx, task)
			if err != nil {
				return err
			}
			result.TaskIDs = append(result.TaskIDs, taskID)
		}
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert demo data")
		return SeedResult{}, fmt.Errorf("seed: %w", err)
	}

	s.logger.Info().
		Int64("project_id", result.ProjectID).
		Ints64("task_ids", result.TaskIDs).
		Msg("inserted demo data")
	return result, nil
}

// Report lists the tasks with the given priority followed by all tasks.
func (s *Service) Report(ctx context.Context, priority int64) (report Report, err error) {
	ctx, end := s.start(ctx, "Report", attribute.Int64("task.priority", priority))
	defer func() { end(err) }()

	byPriority, err := s.store.ListTasksByPriority(ctx, priority)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("priority", priority).
			Msg("failed to select tasks by priority")
		return Report{}, err
	}
	all, err := s.store.ListTasks(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return Report{}, err
	}

	s.logger.Debug().
		Int64("priority", priority).
		Int("priority_count", len(byPriority)).
		Int("count", len(all)).
		Msg("selected tasks")
	return Report{Priority: priority, ByPriority: byPriority, All: all}, nil
}

// DeleteTask removes one task. A missing id is not an error; the returned
// count tells the caller whether anything was removed.
func (s *Service) DeleteTask(ctx context.Context, id int64) (affected int64, err error) {
	ctx, end := s.start(ctx, "DeleteTask", attribute.Int64("task.id", id))
	defer func() { end(err) }()

	affected, err = s.store.DeleteTask(ctx, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return 0, err
	}
	if affected == 0 {
		s.logger.Info().
			Int64("task_id", id).
			Msg("task not found")
		return 0, nil
	}

	s.logger.Info().
		Int64("task_id", id).
		Msg("deleted task")
	return affected, nil
}

// RenameTask sets the name of one task. A missing id is not an error.
func (s *Service) RenameTask(ctx context.Context, id int64, name string) (affected int64, err error) {
	ctx, end := s.start(ctx, "RenameTask", attribute.Int64("task.id", id))
	defer func() { end(err) }()

	affected, err = s.store.UpdateTaskName(ctx, id, name)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to update task name")
		return 0, err
	}
	if affected == 0 {
		s.logger.Info().
			Int64("task_id", id).
			Msg("task not found")
		return 0, nil
	}

	s.logger.Info().
		Int64("task_id", id).
		Str("name", name).
		Msg("updated task name")
	return affected, nil
}

func (s *Service) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "tracker."+name, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil && !errors.Is(err, context.Canceled) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
