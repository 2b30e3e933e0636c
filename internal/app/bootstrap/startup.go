// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/taskhub/internal/app/store/oauthstate"
	"github.com/dalemusser/taskhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// stateCleanup runs for the life of the process; Shutdown stops it.
var stateCleanup *workers.StateCleanup

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. TaskHub
// starts the OAuth state cleanup worker here.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	stateCleanup = workers.NewStateCleanup(oauthstate.New(deps.TaskHubMongoDatabase), logger, time.Hour)
	stateCleanup.Start()
	return nil
}
