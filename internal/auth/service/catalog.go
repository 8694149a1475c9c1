package service

import (
	"context"
	"strings"
	"time"

	"github.com/minerasur/sac/internal/auth/domain"
	"github.com/minerasur/sac/internal/auth/store"
	"github.com/minerasur/sac/pkg/idx"
)

// CatalogService is the CRUD surface for modules, permissions and sites.
// The core rules it enforces are thin: permission ownership is immutable
// and deactivating a module hides it from the picker without touching
// grants.
type CatalogService struct {
	Store store.Store
}

type ModuleInput struct {
	Name        string
	Description string
	URL         string
	Icon        string
}

func (s *CatalogService) CreateModule(ctx context.Context, in ModuleInput) (domain.Module, error) {
	now := time.Now().UTC()
	module := domain.Module{
		ID:          idx.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		URL:         strings.TrimSpace(in.URL),
		Icon:        strings.TrimSpace(in.Icon),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Modules().CreateModule(ctx, module); err != nil {
		return domain.Module{}, err
	}
	return module, nil
}

func (s *CatalogService) UpdateModule(ctx context.Context, moduleID string, in ModuleInput) (domain.Module, error) {
	module, err := s.Store.Modules().GetModuleByID(ctx, moduleID)
	if err != nil {
		return domain.Module{}, err
	}

	module.Name = strings.TrimSpace(in.Name)
	module.Description = strings.TrimSpace(in.Description)
	module.URL = strings.TrimSpace(in.URL)
	module.Icon = strings.TrimSpace(in.Icon)

	if err := s.Store.Modules().UpdateModule(ctx, module); err != nil {
		return domain.Module{}, err
	}
	return s.Store.Modules().GetModuleByID(ctx, moduleID)
}

func (s *CatalogService) ToggleModuleStatus(ctx context.Context, moduleID string) (domain.Module, error) {
	module, err := s.Store.Modules().GetModuleByID(ctx, moduleID)
	if err != nil {
		return domain.Module{}, err
	}
	if err := s.Store.Modules().SetModuleActive(ctx, moduleID, !module.Active); err != nil {
		return domain.Module{}, err
	}
	module.Active = !module.Active
	return module, nil
}

func (s *CatalogService) DeleteModule(ctx context.Context, moduleID string) error {
	return s.Store.Modules().DeleteModule(ctx, moduleID)
}

func (s *CatalogService) GetModule(ctx context.Context, moduleID string) (domain.Module, error) {
	return s.Store.Modules().GetModuleByID(ctx, moduleID)
}

func (s *CatalogService) ListModules(ctx context.Context) ([]domain.Module, error) {
	return s.Store.Modules().ListModules(ctx)
}

// ModulePermissions lists the permissions owned by one module.
func (s *CatalogService) ModulePermissions(ctx context.Context, moduleID string) ([]domain.Permission, error) {
	if _, err := s.Store.Modules().GetModuleByID(ctx, moduleID); err != nil {
		return nil, err
	}
	return s.Store.Permissions().ListPermissionsByModule(ctx, moduleID)
}

// ModuleUsers lists the users holding any role in a module.
func (s *CatalogService) ModuleUsers(ctx context.Context, moduleID string) ([]domain.User, error) {
	if _, err := s.Store.Modules().GetModuleByID(ctx, moduleID); err != nil {
		return nil, err
	}
	return s.Store.Assignments().ListUsersInModule(ctx, moduleID)
}

func (s *CatalogService) CreatePermission(ctx context.Context, moduleID, name, description string) (domain.Permission, error) {
	if _, err := s.Store.Modules().GetModuleByID(ctx, moduleID); err != nil {
		return domain.Permission{}, err
	}

	now := time.Now().UTC()
	perm := domain.Permission{
		ID:          idx.New().String(),
		ModuleID:    moduleID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Permissions().CreatePermission(ctx, perm); err != nil {
		return domain.Permission{}, err
	}
	return perm, nil
}

// UpdatePermission mutates name and description. The owning module is fixed
// at creation; requests that try to move a permission are ignored at the
// handler layer and the store never writes module_id.
func (s *CatalogService) UpdatePermission(ctx context.Context, permissionID, name, description string) (domain.Permission, error) {
	perm, err := s.Store.Permissions().GetPermissionByID(ctx, permissionID)
	if err != nil {
		return domain.Permission{}, err
	}

	perm.Name = strings.TrimSpace(name)
	perm.Description = strings.TrimSpace(description)

	if err := s.Store.Permissions().UpdatePermission(ctx, perm); err != nil {
		return domain.Permission{}, err
	}
	return s.Store.Permissions().GetPermissionByID(ctx, permissionID)
}

func (s *CatalogService) DeletePermission(ctx context.Context, permissionID string) error {
	return s.Store.Permissions().DeletePermission(ctx, permissionID)
}

func (s *CatalogService) GetPermission(ctx context.Context, permissionID string) (domain.Permission, error) {
	return s.Store.Permissions().GetPermissionByID(ctx, permissionID)
}

func (s *CatalogService) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	return s.Store.Permissions().ListPermissions(ctx)
}

type SiteInput struct {
	Location string
	Detail   string
	Color    string
}

func (s *CatalogService) CreateSite(ctx context.Context, in SiteInput) (domain.Site, error) {
	now := time.Now().UTC()
	site := domain.Site{
		ID:        idx.New().String(),
		Location:  strings.TrimSpace(in.Location),
		Detail:    strings.TrimSpace(in.Detail),
		Color:     strings.TrimSpace(in.Color),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if site.Color == "" {
		site.Color = "#f97316"
	}
	if err := s.Store.Sites().CreateSite(ctx, site); err != nil {
		return domain.Site{}, err
	}
	return site, nil
}

func (s *CatalogService) UpdateSite(ctx context.Context, siteID string, in SiteInput) (domain.Site, error) {
	site, err := s.Store.Sites().GetSiteByID(ctx, siteID)
	if err != nil {
		return domain.Site{}, err
	}

	site.Location = strings.TrimSpace(in.Location)
	site.Detail = strings.TrimSpace(in.Detail)
	if c := strings.TrimSpace(in.Color); c != "" {
		site.Color = c
	}

	if err := s.Store.Sites().UpdateSite(ctx, site); err != nil {
		return domain.Site{}, err
	}
	return s.Store.Sites().GetSiteByID(ctx, siteID)
}

func (s *CatalogService) DeleteSite(ctx context.Context, siteID string) error {
	return s.Store.Sites().DeleteSite(ctx, siteID)
}

func (s *CatalogService) GetSite(ctx context.Context, siteID string) (domain.Site, error) {
	return s.Store.Sites().GetSiteByID(ctx, siteID)
}

func (s *CatalogService) ListSites(ctx context.Context) ([]domain.Site, error) {
	return s.Store.Sites().ListSites(ctx)
}

// DashboardStats aggregates the counts shown on the admin landing page.
type DashboardStats struct {
	TotalUsers       int `json:"total_users"`
	ActiveUsers      int `json:"active_users"`
	TotalModules     int `json:"total_modules"`
	ActiveModules    int `json:"active_modules"`
	TotalRoles       int `json:"total_roles"`
	TotalPermissions int `json:"total_permissions"`
	TotalSites       int `json:"total_sites"`
}

func (s *CatalogService) Dashboard(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	var err error

	if stats.TotalUsers, stats.ActiveUsers, err = s.Store.Users().CountUsers(ctx); err != nil {
		return DashboardStats{}, err
	}
	if stats.TotalModules, stats.ActiveModules, err = s.Store.Modules().CountModules(ctx); err != nil {
		return DashboardStats{}, err
	}
	if stats.TotalRoles, err = s.Store.Roles().CountRoles(ctx); err != nil {
		return DashboardStats{}, err
	}
	if stats.TotalPermissions, err = s.Store.Permissions().CountPermissions(ctx); err != nil {
		return DashboardStats{}, err
	}
	if stats.TotalSites, err = s.Store.Sites().CountSites(ctx); err != nil {
		return DashboardStats{}, err
	}

	return stats, nil
}
