package resources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/octabyte/bm-health-portal/enums"
	"github.com/octabyte/bm-health-portal/gateway"
	"github.com/octabyte/bm-health-portal/models"
	"github.com/octabyte/bm-health-portal/session"
)

type Profile struct {
	gw    Doer
	store session.Store
}

func NewProfile(gw Doer, store session.Store) *Profile {
	return &Profile{gw: gw, store: store}
}

func (p *Profile) path(ctx context.Context) (string, error) {
	uid, err := session.CurrentUserID(ctx, p.store)
	if err != nil {
		return "", fmt.Errorf("profile: %w", err)
	}
	return fmt.Sprintf("/%s/%d", enums.ProfileResource, uid), nil
}

func (p *Profile) Get(ctx context.Context) (models.Profile, error) {
	var out models.Profile
	path, err := p.path(ctx)
	if err != nil {
		return out, err
	}
	err = p.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: path}, &out)
	return out, err
}

func (p *Profile) Update(ctx context.Context, profile models.Profile) (models.Profile, error) {
	var out models.Profile
	path, err := p.path(ctx)
	if err != nil {
		return out, err
	}
	err = p.gw.Do(ctx, gateway.Request{Method: http.MethodPut, Path: path, Body: profile}, &out)
	return out, err
}
