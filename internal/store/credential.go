package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/complyx/complyx/ent"
	"github.com/complyx/complyx/internal/api"
)

type credentialRepo struct {
	client *ent.Client
}

func (r *credentialRepo) Tokens(ctx context.Context) (api.Tokens, error) {
	cred, err := r.client.Credential.Query().First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return api.Tokens{}, nil
		}
		return api.Tokens{}, fmt.Errorf("query credential: %w", err)
	}
	return api.Tokens{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
	}, nil
}

func (r *credentialRepo) Save(ctx context.Context, t api.Tokens) error {
	cred, err := r.client.Credential.Query().First(ctx)
	if err != nil {
		if !ent.IsNotFound(err) {
			return fmt.Errorf("query credential: %w", err)
		}
		_, err = r.client.Credential.Create().
			SetAccessToken(t.AccessToken).
			SetRefreshToken(t.RefreshToken).
			Save(ctx)
		if err != nil {
			return fmt.Errorf("save credential: %w", err)
		}
		return nil
	}

	_, err = cred.Update().
		SetAccessToken(t.AccessToken).
		SetRefreshToken(t.RefreshToken).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	return nil
}

func (r *credentialRepo) Clear(ctx context.Context) error {
	_, err := r.client.Credential.Delete().Exec(ctx)
	if err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

func (r *credentialRepo) SaveUser(ctx context.Context, user api.User) error {
	blob, err := userToMap(user)
	if err != nil {
		return err
	}

	cred, err := r.client.Credential.Query().First(ctx)
	if err != nil {
		if !ent.IsNotFound(err) {
			return fmt.Errorf("query credential: %w", err)
		}
		// No tokens yet; the user blob rides along with empty tokens until
		// Save fills them in.
		_, err = r.client.Credential.Create().
			SetAccessToken("").
			SetRefreshToken("").
			SetUser(blob).
			Save(ctx)
		if err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		return nil
	}

	if _, err := cred.Update().SetUser(blob).Save(ctx); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *credentialRepo) User(ctx context.Context) (api.User, bool, error) {
	cred, err := r.client.Credential.Query().First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return api.User{}, false, nil
		}
		return api.User{}, false, fmt.Errorf("query credential: %w", err)
	}
	if len(cred.User) == 0 {
		return api.User{}, false, nil
	}

	raw, err := json.Marshal(cred.User)
	if err != nil {
		return api.User{}, false, fmt.Errorf("marshal user blob: %w", err)
	}
	var user api.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return api.User{}, false, fmt.Errorf("decode user blob: %w", err)
	}
	return user, true, nil
}

// userToMap round-trips the user through JSON into the stored map form.
func userToMap(user api.User) (map[string]any, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("encode user blob: %w", err)
	}
	return m, nil
}
