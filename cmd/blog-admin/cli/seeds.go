package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/portfolio/blog-admin/internal/core/credentials"
	"github.com/portfolio/blog-admin/internal/core/domain"
	"github.com/portfolio/blog-admin/internal/core/service"
	"github.com/portfolio/blog-admin/internal/pkg/config"
)

// seedAccount is one entry of ADMIN_SEED_FILE.
type seedAccount struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
	AdminKey string `json:"admin_key"`
}

// loadSeeds returns the first-run registry entries and the credential records
// for the configured seed admin plus any accounts listed in the seed file.
func loadSeeds(cfg config.SeedConfig) ([]service.SeedUser, []credentials.Record, error) {
	accounts := []seedAccount{{
		Email:    cfg.Email,
		Name:     cfg.Name,
		Role:     cfg.Role,
		Password: cfg.Password,
		AdminKey: cfg.AdminKey,
	}}

	if cfg.File != "" {
		raw, err := os.ReadFile(cfg.File)
		if err != nil {
			return nil, nil, fmt.Errorf("read seed file: %w", err)
		}
		var extra []seedAccount
		if err := json.Unmarshal(raw, &extra); err != nil {
			return nil, nil, fmt.Errorf("parse seed file %s: %w", cfg.File, err)
		}
		accounts = append(accounts, extra...)
	}

	users := make([]service.SeedUser, 0, len(accounts))
	records := make([]credentials.Record, 0, len(accounts))
	for _, a := range accounts {
		role, err := domain.ParseRole(a.Role)
		if err != nil {
			return nil, nil, fmt.Errorf("seed %s: %w", a.Email, err)
		}
		users = append(users, service.SeedUser{Email: a.Email, Name: a.Name, Role: role})
		records = append(records, credentials.Record{Email: a.Email, Password: a.Password, AdminKey: a.AdminKey})
	}
	return users, records, nil
}
