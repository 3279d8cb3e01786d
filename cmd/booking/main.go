package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/example/workspace-booking/internal/application"
	"github.com/example/workspace-booking/internal/config"
	httptransport "github.com/example/workspace-booking/internal/http"
	"github.com/example/workspace-booking/internal/persistence"
	"github.com/example/workspace-booking/internal/persistence/sqlite"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogFormat)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := application.NewToken
	now := time.Now

	userStore := sqlite.NewUserRepository(pool)
	sessionStore := sqlite.NewSessionRepository(pool)
	workspaceStore := sqlite.NewWorkspaceRepository(pool)
	invitationStore := sqlite.NewInvitationRepository(pool)
	roomStore := sqlite.NewRoomRepository(pool)
	bookingStore := sqlite.NewBookingRepository(pool)

	users := newUserRepositoryAdapter(userStore)
	verifications := newVerificationRepositoryAdapter(userStore)
	credentials := newCredentialStoreAdapter(userStore)
	directory := newUserDirectoryAdapter(userStore)
	sessions := newSessionRepositoryAdapter(sessionStore)
	workspaces := newWorkspaceRepositoryAdapter(workspaceStore)
	members := newMembershipAdapter(workspaceStore)
	roster := newMemberRosterAdapter(workspaceStore, userStore)
	invitations := newInvitationRepositoryAdapter(invitationStore)
	rooms := newRoomRepositoryAdapter(roomStore)
	bookings := newBookingRepositoryAdapter(bookingStore)
	sender := &logEmailSender{logger: logger}

	resolver := application.NewAccessResolverWithLogger(members, invitations, now, logger)

	userService := application.NewUserServiceWithLogger(users, verifications, sender, idGenerator, tokenGenerator, now, cfg.VerificationTTL, logger)
	authService := application.NewAuthServiceWithLogger(credentials, sessions, application.VerifyPassword, tokenGenerator, idGenerator, now, cfg.SessionTTL, logger)
	workspaceService := application.NewWorkspaceServiceWithLogger(workspaces, members, roster, invitations, resolver, idGenerator, now, logger)
	invitationService := application.NewInvitationServiceWithLogger(invitations, directory, members, workspaces, resolver, sender, idGenerator, tokenGenerator, now, cfg.InvitationTTL, logger)
	roomService := application.NewRoomServiceWithLogger(rooms, resolver, idGenerator, now, logger)
	bookingService := application.NewBookingServiceWithLogger(bookings, rooms, workspaces, resolver, idGenerator, now, logger)

	if err := authService.PurgeExpiredSessions(ctx); err != nil {
		logger.Warn("failed to purge expired sessions", "error", err)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:        httptransport.NewAuthHandler(authService, logger),
		Users:       httptransport.NewUserHandler(userService, logger),
		Workspaces:  httptransport.NewWorkspaceHandler(workspaceService, logger),
		Invitations: httptransport.NewInvitationHandler(invitationService, logger),
		Rooms:       httptransport.NewRoomHandler(roomService, logger),
		Bookings:    httptransport.NewBookingHandler(bookingService, logger),
		Session:     httptransport.RequireSession(authService, logger),
		Middleware:  []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("booking API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func newLogger(format string) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelInfo}))
}

// logEmailSender writes outbound mail to the log instead of a mail relay.
// Deployments front this service with a provider-specific relay; the log
// sender keeps single-binary setups working end to end.
type logEmailSender struct {
	logger *slog.Logger
}

func (s *logEmailSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.InfoContext(ctx, "email dispatched", "to", to, "subject", subject, "body_bytes", len(body))
	return nil
}

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	if err := a.repo.CreateUser(ctx, toPersistenceUser(user, passwordHash)); err != nil {
		return application.User{}, err
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) MarkEmailVerified(ctx context.Context, id string, at time.Time) (application.User, error) {
	current, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	verifiedAt := at
	current.EmailVerifiedAt = &verifiedAt
	current.UpdatedAt = at
	if err := a.repo.UpdateUser(ctx, current); err != nil {
		return application.User{}, err
	}
	return toApplicationUser(current), nil
}

type verificationRepositoryAdapter struct {
	repo persistence.EmailVerificationRepository
}

func newVerificationRepositoryAdapter(repo persistence.EmailVerificationRepository) *verificationRepositoryAdapter {
	return &verificationRepositoryAdapter{repo: repo}
}

func (a *verificationRepositoryAdapter) CreateVerification(ctx context.Context, tokenHash, userID string, expiresAt, createdAt time.Time) error {
	return a.repo.CreateVerification(ctx, persistence.EmailVerification{
		TokenHash: tokenHash,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: createdAt,
	})
}

func (a *verificationRepositoryAdapter) GetVerification(ctx context.Context, tokenHash string) (string, time.Time, error) {
	stored, err := a.repo.GetVerification(ctx, tokenHash)
	if err != nil {
		return "", time.Time{}, err
	}
	return stored.UserID, stored.ExpiresAt, nil
}

func (a *verificationRepositoryAdapter) DeleteVerificationsForUser(ctx context.Context, userID string) error {
	return a.repo.DeleteVerificationsForUser(ctx, userID)
}

type credentialStoreAdapter struct {
	repo persistence.UserRepository
}

func newCredentialStoreAdapter(repo persistence.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, err
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
		Disabled:     stored.Disabled,
	}, nil
}

func (a *credentialStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

type userDirectoryAdapter struct {
	repo persistence.UserRepository
}

func newUserDirectoryAdapter(repo persistence.UserRepository) *userDirectoryAdapter {
	return &userDirectoryAdapter{repo: repo}
}

func (a *userDirectoryAdapter) GetUserByEmail(ctx context.Context, email string) (application.User, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return a.repo.DeleteExpiredSessions(ctx, reference)
}

type workspaceRepositoryAdapter struct {
	repo persistence.WorkspaceRepository
}

func newWorkspaceRepositoryAdapter(repo persistence.WorkspaceRepository) *workspaceRepositoryAdapter {
	return &workspaceRepositoryAdapter{repo: repo}
}

func (a *workspaceRepositoryAdapter) CreateWorkspace(ctx context.Context, workspace application.Workspace, creator application.Member) (application.Workspace, error) {
	if err := a.repo.CreateWorkspace(ctx, toPersistenceWorkspace(workspace), toPersistenceMember(creator)); err != nil {
		return application.Workspace{}, err
	}
	stored, err := a.repo.GetWorkspace(ctx, workspace.ID)
	if err != nil {
		return application.Workspace{}, err
	}
	return toApplicationWorkspace(stored), nil
}

func (a *workspaceRepositoryAdapter) GetWorkspace(ctx context.Context, id string) (application.Workspace, error) {
	stored, err := a.repo.GetWorkspace(ctx, id)
	if err != nil {
		return application.Workspace{}, err
	}
	return toApplicationWorkspace(stored), nil
}

func (a *workspaceRepositoryAdapter) UpdateWorkspace(ctx context.Context, workspace application.Workspace) (application.Workspace, error) {
	if err := a.repo.UpdateWorkspace(ctx, toPersistenceWorkspace(workspace)); err != nil {
		return application.Workspace{}, err
	}
	stored, err := a.repo.GetWorkspace(ctx, workspace.ID)
	if err != nil {
		return application.Workspace{}, err
	}
	return toApplicationWorkspace(stored), nil
}

func (a *workspaceRepositoryAdapter) DeleteWorkspace(ctx context.Context, id string) error {
	return a.repo.DeleteWorkspace(ctx, id)
}

func (a *workspaceRepositoryAdapter) ListWorkspacesForUser(ctx context.Context, userID string) ([]application.Workspace, error) {
	models, err := a.repo.ListWorkspacesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	workspaces := make([]application.Workspace, 0, len(models))
	for _, model := range models {
		workspaces = append(workspaces, toApplicationWorkspace(model))
	}
	return workspaces, nil
}

type membershipAdapter struct {
	repo persistence.MemberRepository
}

func newMembershipAdapter(repo persistence.MemberRepository) *membershipAdapter {
	return &membershipAdapter{repo: repo}
}

func (a *membershipAdapter) GetMember(ctx context.Context, workspaceID, userID string) (application.Member, error) {
	stored, err := a.repo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		return application.Member{}, err
	}
	return toApplicationMember(stored), nil
}

type memberRosterAdapter struct {
	members persistence.MemberRepository
	users   persistence.UserRepository
}

func newMemberRosterAdapter(members persistence.MemberRepository, users persistence.UserRepository) *memberRosterAdapter {
	return &memberRosterAdapter{members: members, users: users}
}

func (a *memberRosterAdapter) ListMembers(ctx context.Context, workspaceID string) ([]application.MemberDetail, error) {
	models, err := a.members.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	details := make([]application.MemberDetail, 0, len(models))
	for _, model := range models {
		user, err := a.users.GetUser(ctx, model.UserID)
		if err != nil {
			return nil, err
		}
		details = append(details, application.MemberDetail{
			Member:      toApplicationMember(model),
			Email:       user.Email,
			DisplayName: user.DisplayName,
		})
	}
	return details, nil
}

func (a *memberRosterAdapter) UpdateMemberStatus(ctx context.Context, workspaceID, userID string, status application.MemberStatus, at time.Time) error {
	return a.members.UpdateMemberStatus(ctx, workspaceID, userID, string(status), at)
}

type invitationRepositoryAdapter struct {
	repo persistence.InvitationRepository
}

func newInvitationRepositoryAdapter(repo persistence.InvitationRepository) *invitationRepositoryAdapter {
	return &invitationRepositoryAdapter{repo: repo}
}

func (a *invitationRepositoryAdapter) CreateInvitation(ctx context.Context, invitation application.Invitation, tokenHash string) (application.Invitation, error) {
	if err := a.repo.CreateInvitation(ctx, toPersistenceInvitation(invitation, tokenHash)); err != nil {
		return application.Invitation{}, err
	}
	stored, err := a.repo.GetInvitation(ctx, invitation.ID)
	if err != nil {
		return application.Invitation{}, err
	}
	return toApplicationInvitation(stored), nil
}

func (a *invitationRepositoryAdapter) GetInvitation(ctx context.Context, id string) (application.Invitation, error) {
	stored, err := a.repo.GetInvitation(ctx, id)
	if err != nil {
		return application.Invitation{}, err
	}
	return toApplicationInvitation(stored), nil
}

func (a *invitationRepositoryAdapter) FindPendingInvitation(ctx context.Context, workspaceID, email string, now time.Time) (application.Invitation, error) {
	stored, err := a.repo.FindPendingInvitation(ctx, workspaceID, email, now)
	if err != nil {
		return application.Invitation{}, err
	}
	return toApplicationInvitation(stored), nil
}

func (a *invitationRepositoryAdapter) ListPendingInvitationsForEmail(ctx context.Context, email string, now time.Time) ([]application.Invitation, error) {
	models, err := a.repo.ListPendingInvitationsForEmail(ctx, email, now)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	invitations := make([]application.Invitation, 0, len(models))
	for _, model := range models {
		invitations = append(invitations, toApplicationInvitation(model))
	}
	return invitations, nil
}

func (a *invitationRepositoryAdapter) ExpireInvitations(ctx context.Context, workspaceID, email string, now time.Time) (int64, error) {
	return a.repo.ExpireInvitations(ctx, persistence.InvitationSweepScope{
		WorkspaceID: workspaceID,
		Email:       email,
	}, now)
}

func (a *invitationRepositoryAdapter) UpdateInvitationStatus(ctx context.Context, id string, status application.InvitationStatus, at time.Time) error {
	return a.repo.UpdateInvitationStatus(ctx, id, string(status), at)
}

func (a *invitationRepositoryAdapter) AcceptInvitation(ctx context.Context, id string, member application.Member, at time.Time) error {
	return a.repo.AcceptInvitation(ctx, id, toPersistenceMember(member), at)
}

type roomRepositoryAdapter struct {
	repo persistence.RoomRepository
}

func newRoomRepositoryAdapter(repo persistence.RoomRepository) *roomRepositoryAdapter {
	return &roomRepositoryAdapter{repo: repo}
}

func (a *roomRepositoryAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.CreateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) GetRoom(ctx context.Context, id string) (application.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) UpdateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.UpdateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) ListRooms(ctx context.Context, workspaceID string) ([]application.Room, error) {
	models, err := a.repo.ListRooms(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

func (a *roomRepositoryAdapter) DeleteRoom(ctx context.Context, id string) error {
	return a.repo.DeleteRoom(ctx, id)
}

type bookingRepositoryAdapter struct {
	repo persistence.BookingRepository
}

func newBookingRepositoryAdapter(repo persistence.BookingRepository) *bookingRepositoryAdapter {
	return &bookingRepositoryAdapter{repo: repo}
}

func (a *bookingRepositoryAdapter) CreateBooking(ctx context.Context, booking application.Booking) (application.Booking, error) {
	if err := a.repo.CreateBooking(ctx, toPersistenceBooking(booking)); err != nil {
		return application.Booking{}, err
	}
	stored, err := a.repo.GetBooking(ctx, booking.ID)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) GetBooking(ctx context.Context, id string) (application.Booking, error) {
	stored, err := a.repo.GetBooking(ctx, id)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) CancelBooking(ctx context.Context, id string, at time.Time) (application.Booking, error) {
	stored, err := a.repo.CancelBooking(ctx, id, at)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) ListBookings(ctx context.Context, query application.BookingQuery) ([]application.Booking, error) {
	models, err := a.repo.ListBookings(ctx, persistence.BookingFilter{
		WorkspaceID:      query.WorkspaceID,
		RoomID:           query.RoomID,
		CreatedBy:        query.CreatedBy,
		ActiveOnly:       query.ActiveOnly,
		IncludeCancelled: !query.ActiveOnly,
		EndsAfter:        query.EndsAfter,
		OverlapsStart:    query.OverlapsStart,
		OverlapsEnd:      query.OverlapsEnd,
	})
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	bookings := make([]application.Booking, 0, len(models))
	for _, model := range models {
		bookings = append(bookings, toApplicationBooking(model))
	}
	return bookings, nil
}

func toApplicationUser(user persistence.User) application.User {
	return application.User{
		ID:              user.ID,
		Email:           user.Email,
		DisplayName:     user.DisplayName,
		EmailVerifiedAt: user.EmailVerifiedAt,
		Disabled:        user.Disabled,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

func toPersistenceUser(user application.User, passwordHash string) persistence.User {
	return persistence.User{
		ID:              user.ID,
		Email:           user.Email,
		DisplayName:     user.DisplayName,
		PasswordHash:    passwordHash,
		EmailVerifiedAt: user.EmailVerifiedAt,
		Disabled:        user.Disabled,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

func toApplicationSession(session persistence.Session) application.Session {
	return application.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		RevokedAt: session.RevokedAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		RevokedAt: session.RevokedAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

func toApplicationWorkspace(workspace persistence.Workspace) application.Workspace {
	return application.Workspace{
		ID:                workspace.ID,
		Name:              workspace.Name,
		Timezone:          workspace.Timezone,
		ScheduleStartHour: workspace.ScheduleStartHour,
		ScheduleEndHour:   workspace.ScheduleEndHour,
		CreatedBy:         workspace.CreatedBy,
		CreatedAt:         workspace.CreatedAt,
		UpdatedAt:         workspace.UpdatedAt,
	}
}

func toPersistenceWorkspace(workspace application.Workspace) persistence.Workspace {
	return persistence.Workspace{
		ID:                workspace.ID,
		Name:              workspace.Name,
		Timezone:          workspace.Timezone,
		ScheduleStartHour: workspace.ScheduleStartHour,
		ScheduleEndHour:   workspace.ScheduleEndHour,
		CreatedBy:         workspace.CreatedBy,
		CreatedAt:         workspace.CreatedAt,
		UpdatedAt:         workspace.UpdatedAt,
	}
}

func toApplicationMember(member persistence.Member) application.Member {
	return application.Member{
		WorkspaceID: member.WorkspaceID,
		UserID:      member.UserID,
		Role:        application.Role(member.Role),
		Status:      application.MemberStatus(member.Status),
		CreatedAt:   member.CreatedAt,
		UpdatedAt:   member.UpdatedAt,
	}
}

func toPersistenceMember(member application.Member) persistence.Member {
	return persistence.Member{
		WorkspaceID: member.WorkspaceID,
		UserID:      member.UserID,
		Role:        string(member.Role),
		Status:      string(member.Status),
		CreatedAt:   member.CreatedAt,
		UpdatedAt:   member.UpdatedAt,
	}
}

func toApplicationInvitation(invitation persistence.Invitation) application.Invitation {
	return application.Invitation{
		ID:          invitation.ID,
		WorkspaceID: invitation.WorkspaceID,
		Email:       invitation.Email,
		Status:      application.InvitationStatus(invitation.Status),
		ExpiresAt:   invitation.ExpiresAt,
		InvitedBy:   invitation.InvitedBy,
		CreatedAt:   invitation.CreatedAt,
		UpdatedAt:   invitation.UpdatedAt,
	}
}

func toPersistenceInvitation(invitation application.Invitation, tokenHash string) persistence.Invitation {
	return persistence.Invitation{
		ID:          invitation.ID,
		WorkspaceID: invitation.WorkspaceID,
		Email:       invitation.Email,
		TokenHash:   tokenHash,
		Status:      string(invitation.Status),
		ExpiresAt:   invitation.ExpiresAt,
		InvitedBy:   invitation.InvitedBy,
		CreatedAt:   invitation.CreatedAt,
		UpdatedAt:   invitation.UpdatedAt,
	}
}

func toApplicationRoom(room persistence.Room) application.Room {
	return application.Room{
		ID:          room.ID,
		WorkspaceID: room.WorkspaceID,
		Name:        room.Name,
		Description: room.Description,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	}
}

func toPersistenceRoom(room application.Room) persistence.Room {
	return persistence.Room{
		ID:          room.ID,
		WorkspaceID: room.WorkspaceID,
		Name:        room.Name,
		Description: room.Description,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	}
}

func toApplicationBooking(booking persistence.Booking) application.Booking {
	return application.Booking{
		ID:          booking.ID,
		WorkspaceID: booking.WorkspaceID,
		RoomID:      booking.RoomID,
		CreatedBy:   booking.CreatedBy,
		StartAt:     booking.StartAt,
		EndAt:       booking.EndAt,
		Subject:     booking.Subject,
		Criticality: application.Criticality(booking.Criticality),
		Status:      application.BookingStatus(booking.Status),
		CreatedAt:   booking.CreatedAt,
		UpdatedAt:   booking.UpdatedAt,
	}
}

func toPersistenceBooking(booking application.Booking) persistence.Booking {
	return persistence.Booking{
		ID:          booking.ID,
		WorkspaceID: booking.WorkspaceID,
		RoomID:      booking.RoomID,
		CreatedBy:   booking.CreatedBy,
		StartAt:     booking.StartAt,
		EndAt:       booking.EndAt,
		Subject:     booking.Subject,
		Criticality: string(booking.Criticality),
		Status:      string(booking.Status),
		CreatedAt:   booking.CreatedAt,
		UpdatedAt:   booking.UpdatedAt,
	}
}
