// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	aifeature "github.com/dalemusser/taskhub/internal/app/features/aiprioritize"
	authgooglefeature "github.com/dalemusser/taskhub/internal/app/features/authgoogle"
	dashboardfeature "github.com/dalemusser/taskhub/internal/app/features/dashboard"
	healthfeature "github.com/dalemusser/taskhub/internal/app/features/health"
	invitationsfeature "github.com/dalemusser/taskhub/internal/app/features/invitations"
	loginfeature "github.com/dalemusser/taskhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/taskhub/internal/app/features/logout"
	projectsfeature "github.com/dalemusser/taskhub/internal/app/features/projects"
	registerfeature "github.com/dalemusser/taskhub/internal/app/features/register"
	tasksfeature "github.com/dalemusser/taskhub/internal/app/features/tasks"
	userinfofeature "github.com/dalemusser/taskhub/internal/app/features/userinfo"
	usersfeature "github.com/dalemusser/taskhub/internal/app/features/users"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/genai"
	"github.com/dalemusser/taskhub/internal/app/system/invites"
	"github.com/dalemusser/taskhub/internal/app/system/mailer"
	"github.com/dalemusser/taskhub/internal/app/system/requestlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. TaskHub builds the session manager,
// invitation token signer, mailer, and Gemini client here, then mounts a
// feature router for each area of the API.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.TaskHubMongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh user data on each request, so renames
	// and deleted accounts take effect without waiting for cookie expiry.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	tokens, err := invites.New(appCfg.InviteSignKey, appCfg.InviteExpiry)
	if err != nil {
		logger.Error("invitation token signer init failed", zap.Error(err))
		return nil, err
	}

	mail := mailer.New(appCfg.MailSMTPHost, appCfg.MailSMTPPort, appCfg.MailSMTPUser, appCfg.MailSMTPPass, appCfg.MailFrom, appCfg.MailFromName, logger)
	ai := genai.New(appCfg.GeminiAPIKey, appCfg.GeminiModel)

	r := chi.NewRouter()
	r.Use(requestlog.Middleware(logger))

	// Global auth middleware: loads SessionUser into context if signed in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.TaskHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	registerHandler := registerfeature.NewHandler(db, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	loginHandler := loginfeature.NewHandler(db, sessionMgr, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(db, sessionMgr, appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Session identity probe
	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	// User directory for assignment pickers
	usersHandler := usersfeature.NewHandler(db, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	// Projects, with invitation creation nested under each project
	projectsHandler := projectsfeature.NewHandler(db, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

	invitationsHandler := invitationsfeature.NewHandler(db, tokens, mail, appCfg.BaseURL, appCfg.SiteName, logger)
	r.Mount("/projects/{projectID}/invitations", invitationsfeature.ProjectRoutes(invitationsHandler, sessionMgr))
	r.Mount("/invitations", invitationsfeature.Routes(invitationsHandler, sessionMgr))

	// Tasks
	tasksHandler := tasksfeature.NewHandler(db, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler, sessionMgr))

	// Dashboard aggregation
	dashboardHandler := dashboardfeature.NewHandler(db, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// AI priority suggestions
	aiHandler := aifeature.NewHandler(ai, logger)
	r.Mount("/ai", aifeature.Routes(aiHandler, sessionMgr))

	return r, nil
}
