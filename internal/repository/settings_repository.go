package repository

import (
	"context"
	"encoding/json"

	"github.com/spec-kit/transport-site/internal/domain"
)

// SettingsRepository persists site settings. Only the newest row is ever read.
type SettingsRepository interface {
	Latest(ctx context.Context) (*domain.Settings, error)
	Create(ctx context.Context, settings *domain.Settings) error
	Update(ctx context.Context, settings *domain.Settings) error
}

func encodeSocialLinks(links map[string]string) ([]byte, error) {
	if links == nil {
		links = map[string]string{}
	}
	return json.Marshal(links)
}

func decodeSocialLinks(raw []byte) (map[string]string, error) {
	links := map[string]string{}
	if len(raw) == 0 {
		return links, nil
	}
	if err := json.Unmarshal(raw, &links); err != nil {
		return nil, err
	}
	return links, nil
}
