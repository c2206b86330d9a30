package models

// Reward is something the user buys with gems.
type Reward struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Cost        int    `json:"cost"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Punishment is a workout template assigned when a habit is failed.
type Punishment struct {
	ID          ID         `json:"id"`
	Name        string     `json:"name"`
	Reps        string     `json:"reps"` // display string, e.g. "20 reps"
	GemLoss     int        `json:"gemLoss"`
	Difficulty  Difficulty `json:"difficulty"`
	Description string     `json:"description,omitempty"`
}

// PendingWorkout is a punishment assigned on a specific day.
type PendingWorkout struct {
	ID           ID         `json:"id"`
	PunishmentID ID         `json:"punishmentId,omitempty"`
	Name         string     `json:"name"`
	Reps         string     `json:"reps"`
	GemLoss      int        `json:"gemLoss"`
	Difficulty   Difficulty `json:"difficulty"`
	Description  string     `json:"description,omitempty"`
	Date         string     `json:"date"`
	Completed    bool       `json:"completed"`
}

// NewPendingWorkout instantiates p as a workout due on day with a fresh id.
func NewPendingWorkout(p Punishment, day string) PendingWorkout {
	return PendingWorkout{
		ID:           NewID(),
		PunishmentID: p.ID,
		Name:         p.Name,
		Reps:         p.Reps,
		GemLoss:      p.GemLoss,
		Difficulty:   p.Difficulty,
		Description:  p.Description,
		Date:         day,
	}
}
