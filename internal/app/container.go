// Package app provides the dependency injection container for the application.
package app

import (
	"os"
	"path/filepath"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/infra/config"
	"github.com/te4it/te4it/internal/infra/directory"
	"github.com/te4it/te4it/internal/infra/jsonstore"
	"github.com/te4it/te4it/internal/infra/logging"
	"github.com/te4it/te4it/internal/infra/sqlstore"
	"github.com/te4it/te4it/internal/infra/token"
	"github.com/te4it/te4it/internal/usecase"
)

// Config holds the resolved file locations.
type Config struct {
	DataDir   string // te4it data directory
	StorePath string // Store file (SQLite database or JSON file)
	UsersPath string // User directory file
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store         domain.Store
	Users         domain.UserRegistry
	Tokens        domain.TokenService
	Clock         domain.Clock
	Logger        domain.Logger
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// AppConfig is the effective configuration, including load warnings.
	AppConfig *domain.Config

	closers []func() error

	// Configuration
	Config Config
}

// DefaultDataDir returns the data directory: $TE4IT_HOME, else
// $XDG_DATA_HOME/te4it, else ~/.local/share/te4it.
func DefaultDataDir() (string, error) {
	if dir := os.Getenv(domain.DataDirEnv); dir != "" {
		return dir, nil
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, domain.DirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", domain.DirName), nil
}

// New creates a Container for dataDir, loading its configuration.
func New(dataDir string) (*Container, error) {
	loader := config.NewLoader(dataDir)
	return newContainer(dataDir, loader, config.NewManager(dataDir))
}

// NewWithGlobalConfigDir creates a Container that reads global configuration
// from globalConfDir instead of the XDG location.
func NewWithGlobalConfigDir(dataDir, globalConfDir string) (*Container, error) {
	loader := config.NewLoaderWithGlobalDir(dataDir, globalConfDir)
	return newContainer(dataDir, loader, config.NewManagerWithGlobalDir(dataDir, globalConfDir))
}

func newContainer(dataDir string, loader *config.Loader, manager *config.Manager) (*Container, error) {
	appConfig, err := loader.Load()
	if err != nil {
		return nil, err
	}

	cfg := Config{
		DataDir:   dataDir,
		StorePath: appConfig.StorePath(dataDir),
		UsersPath: appConfig.UsersPath(dataDir),
	}

	var store domain.Store
	if appConfig.Store.Type == domain.StoreTypeJSON {
		store = jsonstore.New(cfg.StorePath)
	} else {
		store = sqlstore.New(cfg.StorePath)
	}

	logger := logging.New(dataDir, logging.ParseLevel(appConfig.Log.Level))

	return &Container{
		Store:         store,
		Users:         directory.New(cfg.UsersPath),
		Tokens:        token.NewService(),
		Clock:         domain.RealClock{},
		Logger:        logger,
		ConfigLoader:  loader,
		ConfigManager: manager,
		AppConfig:     appConfig,
		closers:       []func() error{store.Close, logger.Close},
		Config:        cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, store domain.Store, users domain.UserRegistry, tokens domain.TokenService, clock domain.Clock, logger domain.Logger) *Container {
	return &Container{
		Store:     store,
		Users:     users,
		Tokens:    tokens,
		Clock:     clock,
		Logger:    logger,
		AppConfig: domain.NewDefaultConfig(),
		Config:    cfg,
	}
}

// Close releases the store and log files.
func (c *Container) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}

// ActorProvider returns the provider resolving ref (a user id or email).
func (c *Container) ActorProvider(ref string) *directory.ActorProvider {
	return directory.NewActorProvider(c.Users, ref)
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.Store)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.AppConfig)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}

// ShowLogsUseCase returns a new ShowLogs use case.
func (c *Container) ShowLogsUseCase() *usecase.ShowLogs {
	return usecase.NewShowLogs(c.Store, c.Config.DataDir)
}

// RegisterUserUseCase returns a new RegisterUser use case.
func (c *Container) RegisterUserUseCase() *usecase.RegisterUser {
	return usecase.NewRegisterUser(c.Users, c.Logger)
}

// ListUsersUseCase returns a new ListUsers use case.
func (c *Container) ListUsersUseCase() *usecase.ListUsers {
	return usecase.NewListUsers(c.Users)
}

// ListEventsUseCase returns a new ListEvents use case.
func (c *Container) ListEventsUseCase() *usecase.ListEvents {
	return usecase.NewListEvents(c.Store, c.Store)
}

// Projects

// CreateProjectUseCase returns a new CreateProject use case.
func (c *Container) CreateProjectUseCase() *usecase.CreateProject {
	return usecase.NewCreateProject(c.Store, c.Clock, c.Logger)
}

// UpdateProjectUseCase returns a new UpdateProject use case.
func (c *Container) UpdateProjectUseCase() *usecase.UpdateProject {
	return usecase.NewUpdateProject(c.Store, c.Clock, c.Logger)
}

// ChangeProjectStatusUseCase returns a new ChangeProjectStatus use case.
func (c *Container) ChangeProjectStatusUseCase() *usecase.ChangeProjectStatus {
	return usecase.NewChangeProjectStatus(c.Store, c.Clock, c.Logger)
}

// DeleteProjectUseCase returns a new DeleteProject use case.
func (c *Container) DeleteProjectUseCase() *usecase.DeleteProject {
	return usecase.NewDeleteProject(c.Store, c.Clock, c.Logger)
}

// GetProjectUseCase returns a new GetProject use case.
func (c *Container) GetProjectUseCase() *usecase.GetProject {
	return usecase.NewGetProject(c.Store)
}

// ListProjectsUseCase returns a new ListProjects use case.
func (c *Container) ListProjectsUseCase() *usecase.ListProjects {
	return usecase.NewListProjects(c.Store)
}

// Members

// AddProjectMemberUseCase returns a new AddProjectMember use case.
func (c *Container) AddProjectMemberUseCase() *usecase.AddProjectMember {
	return usecase.NewAddProjectMember(c.Store, c.Users, c.Clock, c.Logger)
}

// RemoveProjectMemberUseCase returns a new RemoveProjectMember use case.
func (c *Container) RemoveProjectMemberUseCase() *usecase.RemoveProjectMember {
	return usecase.NewRemoveProjectMember(c.Store, c.Clock, c.Logger)
}

// UpdateMemberRoleUseCase returns a new UpdateMemberRole use case.
func (c *Container) UpdateMemberRoleUseCase() *usecase.UpdateMemberRole {
	return usecase.NewUpdateMemberRole(c.Store, c.Clock, c.Logger)
}

// ListProjectMembersUseCase returns a new ListProjectMembers use case.
func (c *Container) ListProjectMembersUseCase() *usecase.ListProjectMembers {
	return usecase.NewListProjectMembers(c.Store, c.Users)
}

// Invitations

// SendInvitationUseCase returns a new SendInvitation use case.
func (c *Container) SendInvitationUseCase() *usecase.SendInvitation {
	return usecase.NewSendInvitation(c.Store, c.Users, c.Tokens, c.Clock, c.Logger, c.AppConfig.Invitations.ExpirationDays)
}

// AcceptInvitationUseCase returns a new AcceptInvitation use case.
func (c *Container) AcceptInvitationUseCase() *usecase.AcceptInvitation {
	return usecase.NewAcceptInvitation(c.Store, c.Users, c.Tokens, c.Clock, c.Logger)
}

// CancelInvitationUseCase returns a new CancelInvitation use case.
func (c *Container) CancelInvitationUseCase() *usecase.CancelInvitation {
	return usecase.NewCancelInvitation(c.Store, c.Clock, c.Logger)
}

// ListInvitationsUseCase returns a new ListInvitations use case.
func (c *Container) ListInvitationsUseCase() *usecase.ListInvitations {
	return usecase.NewListInvitations(c.Store, c.Clock)
}

// ListMyInvitationsUseCase returns a new ListMyInvitations use case.
func (c *Container) ListMyInvitationsUseCase() *usecase.ListMyInvitations {
	return usecase.NewListMyInvitations(c.Store, c.Users, c.Clock)
}

// Modules

// CreateModuleUseCase returns a new CreateModule use case.
func (c *Container) CreateModuleUseCase() *usecase.CreateModule {
	return usecase.NewCreateModule(c.Store, c.Clock, c.Logger)
}

// UpdateModuleUseCase returns a new UpdateModule use case.
func (c *Container) UpdateModuleUseCase() *usecase.UpdateModule {
	return usecase.NewUpdateModule(c.Store, c.Clock, c.Logger)
}

// ChangeModuleStatusUseCase returns a new ChangeModuleStatus use case.
func (c *Container) ChangeModuleStatusUseCase() *usecase.ChangeModuleStatus {
	return usecase.NewChangeModuleStatus(c.Store, c.Clock, c.Logger)
}

// DeleteModuleUseCase returns a new DeleteModule use case.
func (c *Container) DeleteModuleUseCase() *usecase.DeleteModule {
	return usecase.NewDeleteModule(c.Store, c.Clock, c.Logger)
}

// GetModuleUseCase returns a new GetModule use case.
func (c *Container) GetModuleUseCase() *usecase.GetModule {
	return usecase.NewGetModule(c.Store)
}

// ListModulesUseCase returns a new ListModules use case.
func (c *Container) ListModulesUseCase() *usecase.ListModules {
	return usecase.NewListModules(c.Store)
}

// Use cases

// CreateUseCaseUseCase returns a new CreateUseCase use case.
func (c *Container) CreateUseCaseUseCase() *usecase.CreateUseCase {
	return usecase.NewCreateUseCase(c.Store, c.Clock, c.Logger)
}

// UpdateUseCaseUseCase returns a new UpdateUseCase use case.
func (c *Container) UpdateUseCaseUseCase() *usecase.UpdateUseCase {
	return usecase.NewUpdateUseCase(c.Store, c.Clock, c.Logger)
}

// ChangeUseCaseStatusUseCase returns a new ChangeUseCaseStatus use case.
func (c *Container) ChangeUseCaseStatusUseCase() *usecase.ChangeUseCaseStatus {
	return usecase.NewChangeUseCaseStatus(c.Store, c.Clock, c.Logger)
}

// DeleteUseCaseUseCase returns a new DeleteUseCase use case.
func (c *Container) DeleteUseCaseUseCase() *usecase.DeleteUseCase {
	return usecase.NewDeleteUseCase(c.Store, c.Clock, c.Logger)
}

// GetUseCaseUseCase returns a new GetUseCase use case.
func (c *Container) GetUseCaseUseCase() *usecase.GetUseCase {
	return usecase.NewGetUseCase(c.Store)
}

// ListUseCasesUseCase returns a new ListUseCases use case.
func (c *Container) ListUseCasesUseCase() *usecase.ListUseCases {
	return usecase.NewListUseCases(c.Store)
}

// Tasks

// CreateTaskUseCase returns a new CreateTask use case.
func (c *Container) CreateTaskUseCase() *usecase.CreateTask {
	return usecase.NewCreateTask(c.Store, c.Clock, c.Logger)
}

// UpdateTaskUseCase returns a new UpdateTask use case.
func (c *Container) UpdateTaskUseCase() *usecase.UpdateTask {
	return usecase.NewUpdateTask(c.Store, c.Clock, c.Logger)
}

// AssignAndStartTaskUseCase returns a new AssignAndStartTask use case.
func (c *Container) AssignAndStartTaskUseCase() *usecase.AssignAndStartTask {
	return usecase.NewAssignAndStartTask(c.Store, c.Users, c.Clock, c.Logger)
}

// CompleteTaskUseCase returns a new CompleteTask use case.
func (c *Container) CompleteTaskUseCase() *usecase.CompleteTask {
	return usecase.NewCompleteTask(c.Store, c.Clock, c.Logger)
}

// ChangeTaskStateUseCase returns a new ChangeTaskState use case.
func (c *Container) ChangeTaskStateUseCase() *usecase.ChangeTaskState {
	return usecase.NewChangeTaskState(c.Store, c.Clock, c.Logger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Store, c.Clock, c.Logger)
}

// GetTaskUseCase returns a new GetTask use case.
func (c *Container) GetTaskUseCase() *usecase.GetTask {
	return usecase.NewGetTask(c.Store, c.Clock)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Store, c.Clock)
}

// Relations

// AddTaskRelationUseCase returns a new AddTaskRelation use case.
func (c *Container) AddTaskRelationUseCase() *usecase.AddTaskRelation {
	return usecase.NewAddTaskRelation(c.Store, c.Clock, c.Logger)
}

// RemoveTaskRelationUseCase returns a new RemoveTaskRelation use case.
func (c *Container) RemoveTaskRelationUseCase() *usecase.RemoveTaskRelation {
	return usecase.NewRemoveTaskRelation(c.Store, c.Clock, c.Logger)
}

// ListTaskRelationsUseCase returns a new ListTaskRelations use case.
func (c *Container) ListTaskRelationsUseCase() *usecase.ListTaskRelations {
	return usecase.NewListTaskRelations(c.Store)
}
