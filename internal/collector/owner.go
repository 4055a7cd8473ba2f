package collector

import (
	"context"
	"fmt"
)

// OwnerProfile holds the normalized owner attributes merged into a
// Record by the owner enrichment pass.
type OwnerProfile struct {
	Type        string
	PublicRepos int
	Location    string
}

// ownerProfile fetches the profile of the account holding a
// repository. On failure the error is returned and the caller leaves
// the record's owner fields at their zero defaults; one call, no
// retries.
func (c *Collector) ownerProfile(ctx context.Context, login string) (OwnerProfile, error) {
	user, _, err := c.ghClient.Users.Get(ctx, login)
	if err != nil {
		return OwnerProfile{}, fmt.Errorf("failed to fetch owner profile for %s: %w", login, err)
	}

	profile := OwnerProfile{
		Type:        user.GetType(),
		PublicRepos: user.GetPublicRepos(),
		Location:    user.GetLocation(),
	}
	if profile.Type == "" {
		profile.Type = "User"
	}
	return profile, nil
}
