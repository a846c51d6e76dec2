package service

import (
	"time"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
)

// BuildPlan lays out the memorization timeline of a surah: one task per ayah and a recall
// test after every block of CheckpointSize ayahs and after the final partial block.
// A nil state means the surah has not been started.
func BuildPlan(surah entities.Surah, state *entities.ProgressionState) []entities.Task {
	total := surah.AyahCount
	if state != nil {
		total = state.TotalAyahs
	}
	if total < 1 {
		return nil
	}

	if state == nil {
		fresh := entities.NewProgressionState(0, surah.Number, total, time.Time{})
		state = &fresh
	}

	tasks := make([]entities.Task, 0, total+total/entities.CheckpointSize+1)
	blockStart := 1

	for ayah := 1; ayah <= total; ayah++ {
		tasks = append(tasks, ayahTask(state, ayah))

		if ayah%entities.CheckpointSize == 0 || ayah == total {
			tasks = append(tasks, testTask(state, blockStart, ayah))
			blockStart = ayah + 1
		}
	}

	return tasks
}

func ayahTask(s *entities.ProgressionState, ayah int) entities.Task {
	t := entities.Task{Type: entities.TaskAyah, FromAyah: ayah, ToAyah: ayah}

	switch {
	case s.IsComplete(), ayah < s.CurrentAyah:
		t.Completed = true
	case ayah == s.CurrentAyah && s.Stage == entities.StageAwaitingTest:
		t.Completed = true
	case ayah == s.CurrentAyah:
		t.Current = true
	default:
		t.Locked = true
	}
	return t
}

func testTask(s *entities.ProgressionState, from, to int) entities.Task {
	t := entities.Task{Type: entities.TaskTest, FromAyah: from, ToAyah: to}

	switch {
	case s.IsComplete(), to <= s.LastCheckpoint:
		t.Completed = true
	case s.Stage == entities.StageAwaitingTest && s.CurrentAyah == to:
		t.Current = true
	default:
		t.Locked = true
	}
	return t
}
