package out

import (
	"context"

	"jarvis/internal/modules/schedule/domain"
	scheduleout "jarvis/internal/modules/schedule/port/out"
	taskin "jarvis/internal/modules/task/port/in"
)

type TaskAdapter struct {
	tasks taskin.Usecase
}

func NewTaskAdapter(tasks taskin.Usecase) scheduleout.TaskSource {
	return &TaskAdapter{tasks: tasks}
}

func (a *TaskAdapter) PendingItems(ctx context.Context, limit int) ([]domain.Item, error) {
	pending, err := a.tasks.PendingTasks(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(pending))
	for _, t := range pending {
		items = append(items, domain.Item{
			TaskID:          t.ID,
			Description:     t.Description,
			DurationMinutes: t.DurationMinutes,
			Priority:        t.Priority,
			Energy:          t.Energy,
			FixedStart:      -1,
		})
	}
	return items, nil
}
