package config

import "labelstartup-backend/internal/domain"

type SecurityLevel int

const (
	SecurityPublic        SecurityLevel = iota // No authentication
	SecurityAuthenticated                      // Any signed-in user
	SecurityApplicant                          // Startup role
	SecurityReviewer                           // Evaluator or admin
	SecurityAdmin                              // Admin only
)

// Allows reports whether a signed-in user holding role passes this level.
func (l SecurityLevel) Allows(role domain.Role) bool {
	switch l {
	case SecurityPublic, SecurityAuthenticated:
		return true
	case SecurityApplicant:
		return role.CanApply()
	case SecurityReviewer:
		return role.CanEvaluate()
	case SecurityAdmin:
		return role.CanAdminister()
	}
	return false
}

// Route names, shared by the router and the policy table.
const (
	RouteHealth             = "health"
	RouteSignup             = "auth.signup"
	RouteLogin              = "auth.login"
	RouteMe                 = "auth.me"
	RouteDraftGet           = "drafts.get"
	RouteDraftSave          = "drafts.save"
	RouteDraftDelete        = "drafts.delete"
	RouteDraftSubmit        = "drafts.submit"
	RouteMyApplications     = "applications.mine"
	RouteDashboard          = "admin.dashboard"
	RouteApplicationGet     = "admin.applications.get"
	RouteApplicationStatus  = "admin.applications.status"
	RouteEvaluationsList    = "admin.evaluations.list"
	RouteEvaluationMineGet  = "admin.evaluations.mine.get"
	RouteEvaluationMineSave = "admin.evaluations.mine.save"
	RouteVotingGet          = "admin.voting.get"
	RouteVotingFinalize     = "admin.voting.finalize"
	RouteVotingQuorum       = "admin.voting.quorum"
	RouteCommentsList       = "admin.comments.list"
	RouteCommentsPost       = "admin.comments.post"
	RouteCommentEdit        = "admin.comments.edit"
	RouteCommentDelete      = "admin.comments.delete"
	RouteParticipants       = "admin.participants"
	RouteMentions           = "admin.mentions"
	RouteChatSocket         = "admin.chat.ws"
	RouteDocRequestsList    = "admin.document_requests.list"
	RouteDocRequestsCreate  = "admin.document_requests.create"
	RouteDocRequestCancel   = "document_requests.cancel"
	RouteDocRequestFulfill  = "document_requests.fulfill"
	RouteDocumentUpload     = "startups.documents.upload"
	RouteStorageSign        = "storage.sign"
	RouteStorageDownload    = "storage.download"
	RouteNotificationsList  = "notifications.list"
	RouteNotificationRead   = "notifications.read"
	RoutePushTokens         = "push_tokens.register"
	RouteContentList        = "content.list"
	RouteContentCreate      = "content.create"
	RouteDirectory          = "directory"
	RouteStats              = "stats"
	RouteAssignRole         = "admin.roles.assign"
	RouteFnNotifyDocRequest = "fn.notify_document_request"
	RouteFnNotifyNewContent = "fn.notify_new_content"
	RouteFnSendContactEmail = "fn.send_contact_email"
	RouteFnStartupNews      = "fn.startup_news"
)

// RoutePolicies maps each named route to the access it requires.
var RoutePolicies = map[string]SecurityLevel{
	RouteHealth: SecurityPublic,

	// Auth
	RouteSignup: SecurityPublic,
	RouteLogin:  SecurityPublic,
	RouteMe:     SecurityAuthenticated,

	// Applicant area
	RouteDraftGet:       SecurityApplicant,
	RouteDraftSave:      SecurityApplicant,
	RouteDraftDelete:    SecurityApplicant,
	RouteDraftSubmit:    SecurityApplicant,
	RouteMyApplications: SecurityApplicant,
	RouteDocumentUpload: SecurityApplicant,

	// Evaluation area
	RouteDashboard:          SecurityReviewer,
	RouteApplicationGet:     SecurityReviewer,
	RouteEvaluationsList:    SecurityReviewer,
	RouteEvaluationMineGet:  SecurityReviewer,
	RouteEvaluationMineSave: SecurityReviewer,
	RouteVotingGet:          SecurityReviewer,
	RouteCommentsList:       SecurityReviewer,
	RouteCommentsPost:       SecurityReviewer,
	RouteCommentEdit:        SecurityReviewer,
	RouteCommentDelete:      SecurityReviewer,
	RouteParticipants:       SecurityReviewer,
	RouteMentions:           SecurityReviewer,
	RouteChatSocket:         SecurityReviewer,
	RouteDocRequestsList:    SecurityReviewer,

	// Admin only
	RouteApplicationStatus: SecurityAdmin,
	RouteVotingFinalize:    SecurityAdmin,
	RouteVotingQuorum:      SecurityAdmin,
	RouteDocRequestsCreate: SecurityAdmin,
	RouteDocRequestCancel:  SecurityAdmin,
	RouteContentCreate:     SecurityAdmin,
	RouteAssignRole:        SecurityAdmin,

	// Any signed-in user
	RouteDocRequestFulfill: SecurityAuthenticated,
	RouteStorageSign:       SecurityAuthenticated,
	RouteNotificationsList: SecurityAuthenticated,
	RouteNotificationRead:  SecurityAuthenticated,
	RoutePushTokens:        SecurityAuthenticated,

	// Public; the download URL carries its own signature
	RouteStorageDownload: SecurityPublic,
	RouteContentList:     SecurityPublic,
	RouteDirectory:       SecurityPublic,
	RouteStats:           SecurityPublic,

	// Function endpoints
	RouteFnNotifyDocRequest: SecurityAdmin,
	RouteFnNotifyNewContent: SecurityAdmin,
	RouteFnSendContactEmail: SecurityPublic,
	RouteFnStartupNews:      SecurityPublic,
}

// GetSecurityLevel returns the security level for a named route
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := RoutePolicies[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAdmin
}
