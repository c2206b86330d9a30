package rewards

import (
	"fmt"

	"github.com/julianstephens/gamifylife/internal/cli"
	"github.com/julianstephens/gamifylife/internal/engine"
	"github.com/julianstephens/gamifylife/internal/models"
)

type RewardCmd struct {
	Add    RewardAddCmd    `cmd:"" help:"Add a reward to the shop."`
	List   RewardListCmd   `cmd:"" help:"List rewards." default:"1"`
	Redeem RewardRedeemCmd `cmd:"" help:"Spend gems on a reward."`
}

type RewardAddCmd struct {
	Name        string `arg:"" help:"Name of the reward."`
	Cost        int    `arg:"" help:"Cost in gems."`
	Description string `help:"Optional description."`
	Category    string `help:"Optional category."`
}

func (c *RewardAddCmd) Run(ctx *cli.Context) error {
	r, err := ctx.Engine.AddReward(engine.RewardInput{
		Name:        c.Name,
		Cost:        c.Cost,
		Description: c.Description,
		Category:    c.Category,
	})
	if err != nil {
		return fmt.Errorf("failed to add reward: %w", err)
	}
	ctx.Printf("Added reward: %s for %d gems (%s)\n", r.Name, r.Cost, cli.ShortID(r.ID))
	return nil
}

type RewardListCmd struct{}

func (c *RewardListCmd) Run(ctx *cli.Context) error {
	s := ctx.Engine.Snapshot()
	if len(s.Rewards) == 0 {
		ctx.Println("No rewards found.")
		return nil
	}

	ctx.Printf("Balance: %d gems\n\n", s.Gems)
	for _, r := range s.Rewards {
		mark := " "
		if s.Gems >= r.Cost {
			mark = "*"
		}
		ctx.Printf("%s %s  %-25s %5d gems  %s\n", mark, cli.ShortID(r.ID), r.Name, r.Cost, r.Description)
	}
	ctx.Println("\n* affordable now")
	return nil
}

type RewardRedeemCmd struct {
	Reward string `arg:"" help:"Reward id or id prefix."`
}

func (c *RewardRedeemCmd) Run(ctx *cli.Context) error {
	rewards := ctx.Engine.Snapshot().Rewards
	ids := make([]models.ID, len(rewards))
	for i, r := range rewards {
		ids[i] = r.ID
	}
	id, err := cli.ResolveID(ids, c.Reward)
	if err != nil {
		return fmt.Errorf("reward %w", err)
	}

	ctx.PerformAutomaticBackup()

	out, err := ctx.Engine.RedeemReward(id)
	if err != nil {
		return err
	}

	for _, r := range rewards {
		if r.ID == id {
			ctx.Printf("🎁 Redeemed: %s\n", r.Name)
		}
	}
	ctx.Report(out)
	return nil
}
