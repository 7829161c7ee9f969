package services

import (
	"tillpoint/internal/domain"
	applog "tillpoint/internal/log"
	"tillpoint/internal/state"
	"tillpoint/internal/store"
)

// SettingsService manages merchant settings. They are local-only: loaded
// once at startup and rewritten wholesale on every change.
type SettingsService struct {
	State *state.Session
	Store *store.Adapter
}

func NewSettingsService(s *state.Session, a *store.Adapter) *SettingsService {
	return &SettingsService{State: s, Store: a}
}

func (s *SettingsService) Get() domain.Settings {
	s.State.Lock()
	defer s.State.Unlock()
	return s.State.Settings
}

func (s *SettingsService) Update(st domain.Settings) error {
	s.State.Lock()
	s.State.Settings = st
	s.State.Unlock()

	if err := s.Store.SaveSettings(st); err != nil {
		return err
	}
	applog.Audit(nil, "settings.update", map[string]any{"merchant": st.MerchantName})
	return nil
}
