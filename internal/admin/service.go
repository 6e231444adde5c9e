// Package admin implements the allow-listed management features: the player
// server list, curated recommendations and the user directory.
package admin

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/akmovies/internal/auth"
	"github.com/stwalsh4118/akmovies/internal/db"
	"github.com/stwalsh4118/akmovies/internal/events"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/models"
)

// Service handles admin operations
type Service struct {
	repos          *db.Repositories
	events         *events.Publisher
	defaultServers []string
}

// NewService creates a new admin service. publisher may be nil.
// defaultServers are the base URLs served when the server list cannot be read.
func NewService(repos *db.Repositories, publisher *events.Publisher, defaultServers []string) *Service {
	return &Service{
		repos:          repos,
		events:         publisher,
		defaultServers: defaultServers,
	}
}

// audit logs an admin mutation and publishes it
func (s *Service) audit(actor *auth.Identity, action string, details map[string]any) {
	ev := logger.Log.Info().
		Str("admin_id", actor.UserID).
		Str("admin_email", actor.Email).
		Str("action", action)
	for k, v := range details {
		ev = ev.Interface(k, v)
	}
	ev.Msg("Admin action")

	props := map[string]any{"action": action, "admin_email": actor.Email}
	for k, v := range details {
		props[k] = v
	}
	s.events.Publish(events.SubjectAdminAction, action, actor.UserID, props)
}

// ServerInput is the editable part of a server
type ServerInput struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (in ServerInput) normalize() (ServerInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.URL = strings.TrimSpace(in.URL)
	if in.Name == "" || in.URL == "" {
		return in, ErrInvalidServer
	}
	u, err := url.Parse(in.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return in, fmt.Errorf("%w: %q is not an http(s) url", ErrInvalidServer, in.URL)
	}
	return in, nil
}

// Servers returns the player servers in display order. When the list cannot
// be read the built-in defaults are returned and fallback is true.
func (s *Service) Servers(ctx context.Context) (servers []*models.Server, fallback bool) {
	servers, err := s.repos.Servers.List(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list servers, serving defaults")
		return models.DefaultServers(s.defaultServers), true
	}
	return servers, false
}

// AddServer appends a server to the end of the list
func (s *Service) AddServer(ctx context.Context, actor *auth.Identity, in ServerInput) (*models.Server, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	count, err := s.repos.Servers.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to add server: %w", err)
	}

	server := models.NewServer(in.Name, in.URL, int(count)+1)
	if err := s.repos.Servers.Create(ctx, server); err != nil {
		logger.Log.Error().
			Err(err).
			Str("name", in.Name).
			Msg("Failed to create server in database")
		return nil, fmt.Errorf("failed to add server: %w", err)
	}

	s.audit(actor, ActionAddServer, map[string]any{
		"server_id":    server.ID.String(),
		"name":         server.Name,
		"url":          server.URL,
		"order_number": server.OrderNumber,
	})
	return server, nil
}

// UpdateServer renames or repoints a server. Its position is unchanged.
func (s *Service) UpdateServer(ctx context.Context, actor *auth.Identity, id uuid.UUID, in ServerInput) (*models.Server, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	existing, err := s.repos.Servers.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrServerNotFound
		}
		return nil, fmt.Errorf("failed to update server: %w", err)
	}

	oldName := existing.Name
	existing.Name = in.Name
	existing.URL = in.URL
	existing.Timestamp = time.Now().UTC()
	if err := s.repos.Servers.Update(ctx, existing); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrServerNotFound
		}
		return nil, fmt.Errorf("failed to update server: %w", err)
	}

	s.audit(actor, ActionEditServer, map[string]any{
		"server_id": id.String(),
		"old_name":  oldName,
		"new_name":  in.Name,
		"new_url":   in.URL,
	})
	return existing, nil
}

// DeleteServer removes a server and closes the gap it leaves in the order
func (s *Service) DeleteServer(ctx context.Context, actor *auth.Identity, id uuid.UUID) error {
	existing, err := s.repos.Servers.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return ErrServerNotFound
		}
		return fmt.Errorf("failed to delete server: %w", err)
	}

	if err := s.repos.Servers.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return ErrServerNotFound
		}
		return fmt.Errorf("failed to delete server: %w", err)
	}

	if remaining, err := s.repos.Servers.List(ctx); err == nil {
		ids := make([]uuid.UUID, len(remaining))
		for i, srv := range remaining {
			ids[i] = srv.ID
		}
		if err := s.repos.Servers.Reorder(ctx, ids); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to compact server order after delete")
		}
	}

	s.audit(actor, ActionDeleteServer, map[string]any{
		"server_id": id.String(),
		"name":      existing.Name,
		"url":       existing.URL,
	})
	return nil
}

// ReorderServers rewrites every order number to match ids. ids must name each
// server exactly once; the rewrite is all or nothing.
func (s *Service) ReorderServers(ctx context.Context, actor *auth.Identity, ids []uuid.UUID) ([]*models.Server, error) {
	current, err := s.repos.Servers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reorder servers: %w", err)
	}
	if err := checkPermutation(current, ids); err != nil {
		return nil, err
	}

	if err := s.repos.Servers.Reorder(ctx, ids); err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReorder, err)
		}
		logger.Log.Error().
			Err(err).
			Msg("Failed to reorder servers")
		return nil, fmt.Errorf("failed to reorder servers: %w", err)
	}

	reordered, err := s.repos.Servers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload servers: %w", err)
	}

	order := make([]string, len(ids))
	for i, id := range ids {
		order[i] = id.String()
	}
	s.audit(actor, ActionReorderServers, map[string]any{"order": order})
	return reordered, nil
}

func checkPermutation(current []*models.Server, ids []uuid.UUID) error {
	if len(ids) != len(current) {
		return fmt.Errorf("%w: got %d ids for %d servers", ErrInvalidReorder, len(ids), len(current))
	}
	known := make(map[uuid.UUID]bool, len(current))
	for _, srv := range current {
		known[srv.ID] = false
	}
	for _, id := range ids {
		seen, ok := known[id]
		if !ok {
			return fmt.Errorf("%w: unknown server %s", ErrInvalidReorder, id)
		}
		if seen {
			return fmt.Errorf("%w: duplicate server %s", ErrInvalidReorder, id)
		}
		known[id] = true
	}
	return nil
}
