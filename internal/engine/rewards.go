package engine

import (
	"fmt"
	"strings"

	"github.com/julianstephens/gamifylife/internal/logger"
	"github.com/julianstephens/gamifylife/internal/models"
)

type RewardInput struct {
	Name        string
	Cost        int
	Description string
	Category    string
}

func (in RewardInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: reward name is required", ErrInvalidInput)
	}
	if in.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", ErrInvalidInput)
	}
	return nil
}

// AddReward adds a reward to the shop.
func (e *Engine) AddReward(in RewardInput) (models.Reward, error) {
	if err := in.validate(); err != nil {
		return models.Reward{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	r := models.Reward{
		ID:          models.NewID(),
		Name:        strings.TrimSpace(in.Name),
		Cost:        in.Cost,
		Description: in.Description,
		Category:    in.Category,
	}
	err := e.mutate(func(tx *txn) error {
		tx.state.Rewards = append(tx.state.Rewards, r)
		return nil
	})
	if err != nil {
		return models.Reward{}, err
	}
	return r, nil
}

// RedeemReward spends gems on a reward.
func (e *Engine) RedeemReward(id models.ID) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out Outcome
	err := e.mutate(func(tx *txn) error {
		i := tx.state.RewardIndex(id)
		if i < 0 {
			return fmt.Errorf("reward %s: %w", id, ErrNotFound)
		}
		r := tx.state.Rewards[i]
		if tx.state.Gems < r.Cost {
			return fmt.Errorf("%w: %q costs %d, have %d", ErrInsufficientFunds, r.Name, r.Cost, tx.state.Gems)
		}
		tx.state.Gems -= r.Cost
		out.GemsDelta = -r.Cost
		logger.Debug("Reward redeemed", "reward", r.Name, "cost", r.Cost)
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return e.finish(out), nil
}
