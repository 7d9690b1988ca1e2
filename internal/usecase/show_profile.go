package usecase

import (
	"context"

	"github.com/runoshun/weekplan/internal/domain"
)

// ShowProfileInput contains the parameters for showing the profile.
type ShowProfileInput struct{}

// ShowProfileOutput contains the active profile and readable slot labels.
type ShowProfileOutput struct {
	Profile       *domain.Profile
	DeepLabels    []string
	ShallowLabels []string
}

// ShowProfile is the use case for inspecting the learned profile.
type ShowProfile struct {
	profiles domain.ProfileProvider
}

// NewShowProfile creates a new ShowProfile use case.
func NewShowProfile(profiles domain.ProfileProvider) *ShowProfile {
	return &ShowProfile{profiles: profiles}
}

// Execute returns the current profile.
func (uc *ShowProfile) Execute(_ context.Context, _ ShowProfileInput) (*ShowProfileOutput, error) {
	p := uc.profiles.Current()
	return &ShowProfileOutput{
		Profile:       p,
		DeepLabels:    slotLabels(p.DeepWorkSlots),
		ShallowLabels: slotLabels(p.ShallowWorkSlots),
	}, nil
}

func slotLabels(slots []int) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = domain.SlotLabel(s)
	}
	return out
}
