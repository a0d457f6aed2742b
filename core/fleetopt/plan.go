package fleetopt

import (
	"fmt"

	"github.com/uptimeworks/predmaint/core/model"
)

// rolloutPlan builds the phased implementation plan for a proposal.
func rolloutPlan(proposal model.Proposal, validation model.ValidationResult) model.RolloutPlan {
	plan := model.RolloutPlan{
		Phases: []model.RolloutPhase{
			{
				Name:        "validation",
				Description: "confirm approvals and re-check the snapshot before any change is published",
				Duration:    "48h",
			},
			{
				Name: "pilot",
				Description: fmt.Sprintf("apply the %d modified schedule(s) to a pilot subset and watch completion rates",
					proposal.Summary.Modified),
				Duration: "1w",
			},
			{
				Name:        "fleet_wide",
				Description: "extend the remaining changes across the fleet",
				Duration:    "2w",
			},
		},
		Rollback: []string{
			"restore the snapshot schedule set recorded on the optimization run",
			"notify assigned technicians of reverted dates",
			"flag the run as rejected so it cannot be re-applied",
		},
		Monitoring: []string{
			"schedule completion rate against plan",
			"technician daily hours versus the configured cap",
			"net maintenance cost against the projected delta",
		},
	}
	if !validation.Passed() {
		plan.Phases = plan.Phases[:1]
		plan.Phases[0].Description = "proposal failed validation gates; resolve the reported issues before rollout"
	}
	return plan
}
