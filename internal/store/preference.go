package store

import (
	"context"
	"fmt"

	"github.com/complyx/complyx/ent"
	"github.com/complyx/complyx/ent/preference"
)

type preferenceRepo struct {
	client *ent.Client
}

func (r *preferenceRepo) Set(ctx context.Context, key, value string) error {
	n, err := r.client.Preference.Update().
		Where(preference.Key(key)).
		SetValue(value).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("update preference %q: %w", key, err)
	}
	if n > 0 {
		return nil
	}

	_, err = r.client.Preference.Create().
		SetKey(key).
		SetValue(value).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save preference %q: %w", key, err)
	}
	return nil
}

func (r *preferenceRepo) Get(ctx context.Context, key string) (string, bool, error) {
	p, err := r.client.Preference.Query().
		Where(preference.Key(key)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("query preference %q: %w", key, err)
	}
	return p.Value, true, nil
}
