package cache

import (
	"github.com/matzehuels/taskplan/pkg/plan"
)

// ResultKeyOpts holds everything besides the task set that changes a result.
type ResultKeyOpts struct {
	Strategy           string
	Constraints        plan.Constraints
	Categories         []string
	BruteForceCap      int
	MeetInTheMiddleCap int
	TableCap           int
}

// Keyer generates cache keys.
type Keyer interface {
	// ResultKey returns the key for a solve of the tasks hashed as tasksHash.
	ResultKey(tasksHash string, opts ResultKeyOpts) string
}

// DefaultKeyer produces "result:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey hashes the task hash together with every option.
func (DefaultKeyer) ResultKey(tasksHash string, opts ResultKeyOpts) string {
	return hashKey("result", tasksHash, opts)
}

// TasksHash returns a stable hash of a task set. Task order matters since
// ties between strategies' candidates are broken by position.
func TasksHash(tasks []plan.Task) string {
	return hashKey("tasks", tasks)
}
