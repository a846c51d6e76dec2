package entities

// TaskType is a kind of step on the memorization timeline of a surah.
type TaskType string

const (
	TaskAyah TaskType = "ayah" // memorize one ayah
	TaskTest TaskType = "test" // recall test closing a block
)

// Task is one step on the memorization timeline.
type Task struct {
	Type      TaskType
	FromAyah  int // first ayah covered; equals ToAyah for ayah tasks
	ToAyah    int // last ayah covered
	Completed bool
	Current   bool
	Locked    bool
}
