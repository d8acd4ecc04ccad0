package dashboard

import (
	"context"
	"fmt"

	"BankSentinel/internal/model"
	"BankSentinel/internal/recorder"
	"BankSentinel/internal/store"
)

// Preferences returns the saved display settings, defaulting unset ones.
func (m *Manager) Preferences(ctx context.Context) (model.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.preferences(ctx)
}

func (m *Manager) preferences(ctx context.Context) (model.Preferences, error) {
	var (
		p   model.Preferences
		err error
	)
	if p.Theme, err = store.GetOr(ctx, m.store, store.KeyTheme, model.DefaultPreferences.Theme); err != nil {
		return p, fmt.Errorf("load theme: %w", err)
	}
	if p.Layout, err = store.GetOr(ctx, m.store, store.KeyLayout, model.DefaultPreferences.Layout); err != nil {
		return p, fmt.Errorf("load layout: %w", err)
	}
	if p.Sidebar, err = store.GetOr(ctx, m.store, store.KeySidebar, model.DefaultPreferences.Sidebar); err != nil {
		return p, fmt.Errorf("load sidebar: %w", err)
	}
	return p, nil
}

// SetTheme saves light, dark or system.
func (m *Manager) SetTheme(ctx context.Context, theme string) error {
	if err := model.ValidateTheme(theme); err != nil {
		return err
	}
	return m.setPreference(ctx, store.KeyTheme, theme)
}

// SetLayout saves compact or comfortable.
func (m *Manager) SetLayout(ctx context.Context, layout string) error {
	if err := model.ValidateLayout(layout); err != nil {
		return err
	}
	return m.setPreference(ctx, store.KeyLayout, layout)
}

// ToggleSidebar flips between expanded and collapsed and returns the new state.
func (m *Manager) ToggleSidebar(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, err := store.GetOr(ctx, m.store, store.KeySidebar, model.DefaultPreferences.Sidebar)
	if err != nil {
		return "", fmt.Errorf("load sidebar: %w", err)
	}
	next := model.SidebarCollapsed
	if cur == model.SidebarCollapsed {
		next = model.SidebarExpanded
	}
	if err := m.store.Set(ctx, store.KeySidebar, next); err != nil {
		return "", fmt.Errorf("save sidebar: %w", err)
	}
	m.recordEvent(recorder.EventPreferences, "", store.KeySidebar+"="+next)
	return next, nil
}

// UpdatePreferences applies the non-empty fields of p after validating all of them.
func (m *Manager) UpdatePreferences(ctx context.Context, p model.Preferences) (model.Preferences, error) {
	if p.Theme != "" {
		if err := model.ValidateTheme(p.Theme); err != nil {
			return model.Preferences{}, err
		}
	}
	if p.Layout != "" {
		if err := model.ValidateLayout(p.Layout); err != nil {
			return model.Preferences{}, err
		}
	}
	if p.Sidebar != "" {
		if err := model.ValidateSidebar(p.Sidebar); err != nil {
			return model.Preferences{}, err
		}
	}

	// fixed order: a failed write leaves exactly the earlier fields saved
	for _, kv := range []struct{ key, value string }{
		{store.KeyTheme, p.Theme},
		{store.KeyLayout, p.Layout},
		{store.KeySidebar, p.Sidebar},
	} {
		if kv.value == "" {
			continue
		}
		if err := m.setPreference(ctx, kv.key, kv.value); err != nil {
			return model.Preferences{}, err
		}
	}
	return m.Preferences(ctx)
}

func (m *Manager) setPreference(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	m.recordEvent(recorder.EventPreferences, "", key+"="+value)
	return nil
}
