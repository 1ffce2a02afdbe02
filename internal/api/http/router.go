package http

import (
	"context"
	"net/http"

	"labelstartup-backend/internal/config"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/realtime"
	"labelstartup-backend/internal/security"
	"labelstartup-backend/internal/service"

	"github.com/gorilla/mux"
)

type Services struct {
	Auth             service.AuthService
	Applications     service.ApplicationService
	Dashboard        service.DashboardService
	Evaluations      service.EvaluationService
	Voting           service.VotingService
	Comments         service.CommentService
	DocumentRequests service.DocumentRequestService
	Documents        service.DocumentService
	Notifications    service.NotificationService
	Content          service.ContentService
	Notify           service.NotifyService
	Contact          service.ContactService
	News             service.NewsService
}

type Options struct {
	Development    bool
	Bucket         string
	MaxUploadBytes int64
	// HealthCheck reports readiness; nil means always healthy.
	HealthCheck func(ctx context.Context) error
}

// NewRouter wires every route. Each route is named so the auth middleware can look up its
// policy in config.RoutePolicies.
func NewRouter(svc Services, tokens security.TokenManager, hub *realtime.Hub, origins *OriginPolicy, opts Options) http.Handler {
	authH := NewAuthHandler(svc.Auth)
	appH := NewApplicationHandler(svc.Applications)
	reviewH := NewReviewHandler(svc.Dashboard, svc.Evaluations, svc.Voting)
	commentH := NewCommentHandler(svc.Comments, hub)
	docH := NewDocumentHandler(svc.Documents, opts.Bucket, opts.MaxUploadBytes)
	docReqH := NewDocumentRequestHandler(svc.DocumentRequests)
	noteH := NewNotificationHandler(svc.Notifications)
	contentH := NewContentHandler(svc.Content)
	fnH := NewFunctionHandler(svc.Notify, svc.Contact, svc.News)

	r := mux.NewRouter()
	r.Use(Logging)
	r.Use(NewAuthMiddleware(tokens).Handler)

	r.HandleFunc("/healthz", health(opts.HealthCheck)).Methods(http.MethodGet).Name(config.RouteHealth)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Auth
	api.HandleFunc("/auth/signup", authH.Signup).Methods(http.MethodPost).Name(config.RouteSignup)
	api.HandleFunc("/auth/login", authH.Login).Methods(http.MethodPost).Name(config.RouteLogin)
	api.HandleFunc("/auth/me", authH.Me).Methods(http.MethodGet).Name(config.RouteMe)

	// Applicant area
	api.HandleFunc("/drafts", appH.GetDraft).Methods(http.MethodGet).Name(config.RouteDraftGet)
	api.HandleFunc("/drafts", appH.SaveDraft).Methods(http.MethodPut).Name(config.RouteDraftSave)
	api.HandleFunc("/drafts", appH.DeleteDraft).Methods(http.MethodDelete).Name(config.RouteDraftDelete)
	api.HandleFunc("/drafts/submit", appH.Submit).Methods(http.MethodPost).Name(config.RouteDraftSubmit)
	api.HandleFunc("/applications/mine", appH.Mine).Methods(http.MethodGet).Name(config.RouteMyApplications)
	api.HandleFunc("/startups/{id}/documents", docH.Upload).Methods(http.MethodPost).Name(config.RouteDocumentUpload)

	// Evaluation area
	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/dashboard", reviewH.Dashboard).Methods(http.MethodGet).Name(config.RouteDashboard)
	admin.HandleFunc("/roles", authH.AssignRole).Methods(http.MethodPost).Name(config.RouteAssignRole)

	app := admin.PathPrefix("/applications/{id}").Subrouter()
	app.HandleFunc("", reviewH.Application).Methods(http.MethodGet).Name(config.RouteApplicationGet)
	app.HandleFunc("/status", appH.ChangeStatus).Methods(http.MethodPut).Name(config.RouteApplicationStatus)
	app.HandleFunc("/evaluations", reviewH.Evaluations).Methods(http.MethodGet).Name(config.RouteEvaluationsList)
	app.HandleFunc("/evaluations/mine", reviewH.MyEvaluation).Methods(http.MethodGet).Name(config.RouteEvaluationMineGet)
	app.HandleFunc("/evaluations/mine", reviewH.SaveEvaluation).Methods(http.MethodPut).Name(config.RouteEvaluationMineSave)
	app.HandleFunc("/voting", reviewH.Voting).Methods(http.MethodGet).Name(config.RouteVotingGet)
	app.HandleFunc("/voting/finalize", reviewH.Finalize).Methods(http.MethodPost).Name(config.RouteVotingFinalize)
	app.HandleFunc("/voting/quorum", reviewH.SetQuorum).Methods(http.MethodPut).Name(config.RouteVotingQuorum)
	app.HandleFunc("/comments", commentH.List).Methods(http.MethodGet).Name(config.RouteCommentsList)
	app.HandleFunc("/comments", commentH.Post).Methods(http.MethodPost).Name(config.RouteCommentsPost)
	app.HandleFunc("/comments/{commentId}", commentH.Edit).Methods(http.MethodPut).Name(config.RouteCommentEdit)
	app.HandleFunc("/comments/{commentId}", commentH.Delete).Methods(http.MethodDelete).Name(config.RouteCommentDelete)
	app.HandleFunc("/participants", commentH.Participants).Methods(http.MethodGet).Name(config.RouteParticipants)
	app.HandleFunc("/mentions", commentH.Mentions).Methods(http.MethodGet).Name(config.RouteMentions)
	app.HandleFunc("/chat", commentH.Chat).Methods(http.MethodGet).Name(config.RouteChatSocket)
	app.HandleFunc("/document-requests", docReqH.List).Methods(http.MethodGet).Name(config.RouteDocRequestsList)
	app.HandleFunc("/document-requests", docReqH.Create).Methods(http.MethodPost).Name(config.RouteDocRequestsCreate)

	// Document requests, from either side
	api.HandleFunc("/document-requests/{id}/cancel", docReqH.Cancel).Methods(http.MethodPost).Name(config.RouteDocRequestCancel)
	api.HandleFunc("/document-requests/{id}/fulfill", docReqH.Fulfill).Methods(http.MethodPost).Name(config.RouteDocRequestFulfill)

	// Storage
	api.HandleFunc("/storage/sign", docH.Sign).Methods(http.MethodPost).Name(config.RouteStorageSign)
	r.HandleFunc("/storage/v1/object/{bucket}/{key:.+}", docH.Download).Methods(http.MethodGet).Name(config.RouteStorageDownload)

	// Notifications
	api.HandleFunc("/notifications", noteH.List).Methods(http.MethodGet).Name(config.RouteNotificationsList)
	api.HandleFunc("/notifications/{id}/read", noteH.MarkRead).Methods(http.MethodPost).Name(config.RouteNotificationRead)
	api.HandleFunc("/push-tokens", noteH.RegisterPushToken).Methods(http.MethodPost).Name(config.RoutePushTokens)

	// Public content
	api.HandleFunc("/content/{kind}", contentH.List).Methods(http.MethodGet).Name(config.RouteContentList)
	api.HandleFunc("/content/{kind}", contentH.Create).Methods(http.MethodPost).Name(config.RouteContentCreate)
	api.HandleFunc("/directory", contentH.Directory).Methods(http.MethodGet).Name(config.RouteDirectory)
	api.HandleFunc("/stats", contentH.Stats).Methods(http.MethodGet).Name(config.RouteStats)

	// Functions
	fn := r.PathPrefix("/functions/v1").Subrouter()
	fn.HandleFunc("/notify-document-request", fnH.NotifyDocumentRequest).Methods(http.MethodPost).Name(config.RouteFnNotifyDocRequest)
	fn.HandleFunc("/notify-new-content", fnH.NotifyNewContent).Methods(http.MethodPost).Name(config.RouteFnNotifyNewContent)
	fn.HandleFunc("/send-contact-email", fnH.SendContactEmail).Methods(http.MethodPost).Name(config.RouteFnSendContactEmail)
	fn.HandleFunc("/startup-news", fnH.StartupNews).Methods(http.MethodPost).Name(config.RouteFnStartupNews)

	// CORS runs outside the router so preflight requests reach it before method matching.
	return Recovery(opts.Development)(origins.Middleware(r))
}

func health(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				logger.Error("Health check failed", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
