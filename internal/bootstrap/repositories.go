package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novakeep/stakevault/internal/database/postgres"
	"github.com/novakeep/stakevault/internal/eventlog"
	"github.com/novakeep/stakevault/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Staking  repository.Staking
	Skills   repository.Skills
	EventLog eventlog.Repository
}

// InitializeRepositories creates all repository implementations.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Staking:  postgres.NewStakingRepository(dbPool),
		Skills:   postgres.NewSkillsRepository(dbPool),
		EventLog: postgres.NewEventLogRepository(dbPool),
	}
}
