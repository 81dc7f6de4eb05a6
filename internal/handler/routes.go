package handler

import (
	"net/http"

	"github.com/resume-runner/resume-runner/internal/application"
	"github.com/resume-runner/resume-runner/internal/company"
	"github.com/resume-runner/resume-runner/internal/dashboard"
	"github.com/resume-runner/resume-runner/internal/jobposting"
	"github.com/resume-runner/resume-runner/internal/manager"
	"github.com/resume-runner/resume-runner/internal/meta"
	"github.com/resume-runner/resume-runner/internal/recruiter"
	"github.com/resume-runner/resume-runner/internal/resume"
	"github.com/resume-runner/resume-runner/internal/server"
	"github.com/resume-runner/resume-runner/internal/tag"
	"github.com/resume-runner/resume-runner/internal/user"
)

var (
	get  = []string{http.MethodGet}
	post = []string{http.MethodPost}
	put  = []string{http.MethodPut}
	del  = []string{http.MethodDelete}
)

// RegisterRoutes mounts every endpoint, repositories share svr.Conn
func RegisterRoutes(svr server.Server) {
	companyRepo := company.NewRepository(svr.Conn)
	recruiterRepo := recruiter.NewRepository(svr.Conn)
	managerRepo := manager.NewRepository(svr.Conn)
	resumeRepo := resume.NewRepository(svr.Conn)
	tagRepo := tag.NewRepository(svr.Conn)
	jobPostingRepo := jobposting.NewRepository(svr.Conn)
	applicationRepo := application.NewRepository(svr.Conn)
	dashboardRepo := dashboard.NewRepository(svr.Conn)
	userRepo := user.NewRepository(svr.Conn)
	metaRepo := meta.NewRepository(svr.Conn)

	svr.RegisterPublicAPIRoute("/health", HealthHandler(svr), get)
	svr.RegisterPublicAPIRoute("/auth/request", RequestTokenSignOn(svr, userRepo), post)
	svr.RegisterPublicAPIRoute("/auth/verify/{token}", VerifyTokenSignOn(svr, userRepo), get)
	svr.RegisterPublicAPIRoute("/auth/me", CurrentUser(svr, userRepo), get)
	svr.RegisterPublicAPIRoute("/auth/logout", Logout(svr), post)

	// companies
	svr.RegisterAPIRoute("/companies", ListCompaniesHandler(svr, companyRepo), get)
	svr.RegisterAPIRoute("/companies", CreateCompanyHandler(svr, companyRepo), post)
	svr.RegisterAPIRoute("/companies/search", SearchCompaniesHandler(svr, companyRepo), get)
	svr.RegisterAPIRoute("/companies/{id:[0-9]+}", GetCompanyHandler(svr, companyRepo), get)
	svr.RegisterAPIRoute("/companies/{id:[0-9]+}/details", GetCompanyHandler(svr, companyRepo), get)
	svr.RegisterAPIRoute("/companies/{id:[0-9]+}", UpdateCompanyHandler(svr, companyRepo), put)
	svr.RegisterAPIRoute("/companies/{id:[0-9]+}", DeleteCompanyHandler(svr, companyRepo), del)
	svr.RegisterAPIRoute("/companies/{id:[0-9]+}/stats", CompanyStatsHandler(svr, companyRepo), get)
	svr.RegisterAPIRoute("/companies/{id:[0-9]+}/job-postings", CompanyJobPostingsHandler(svr, jobPostingRepo), get)
	svr.RegisterAPIRoute("/companies/{id:[0-9]+}/applications", CompanyApplicationsHandler(svr, applicationRepo), get)
	svr.RegisterAPIRoute("/companies/{id:[0-9]+}/events", ListCompanyEventsHandler(svr, companyRepo), get)
	svr.RegisterAPIRoute("/companies/{id:[0-9]+}/events", AddCompanyEventHandler(svr, companyRepo), post)
	svr.RegisterAPIRoute("/company-events/{id:[0-9]+}", UpdateCompanyEventHandler(svr, companyRepo), put)
	svr.RegisterAPIRoute("/company-events/{id:[0-9]+}", DeleteCompanyEventHandler(svr, companyRepo), del)
	svr.RegisterAPIRoute("/companies/{id:[0-9]+}/recruiters", CompanyRecruitersHandler(svr, recruiterRepo), get)
	svr.RegisterAPIRoute("/companies/{id:[0-9]+}/recruiters", AssociateRecruiterHandler(svr, recruiterRepo), post)
	svr.RegisterAPIRoute("/companies/{id:[0-9]+}/recruiters/{recruiter_id:[0-9]+}", UpdateAssociationHandler(svr, recruiterRepo), put)
	svr.RegisterAPIRoute("/companies/{id:[0-9]+}/recruiters/{recruiter_id:[0-9]+}", RemoveAssociationHandler(svr, recruiterRepo), del)

	// recruiters
	svr.RegisterAPIRoute("/recruiters", ListRecruitersHandler(svr, recruiterRepo), get)
	svr.RegisterAPIRoute("/recruiters", CreateRecruiterHandler(svr, recruiterRepo), post)
	svr.RegisterAPIRoute("/recruiters/dashboard", RecruiterDashboardHandler(svr, recruiterRepo), get)
	svr.RegisterAPIRoute("/recruiters/{id:[0-9]+}", GetRecruiterHandler(svr, recruiterRepo), get)
	svr.RegisterAPIRoute("/recruiters/{id:[0-9]+}", UpdateRecruiterHandler(svr, recruiterRepo), put)
	svr.RegisterAPIRoute("/recruiters/{id:[0-9]+}", DeleteRecruiterHandler(svr, recruiterRepo), del)
	svr.RegisterAPIRoute("/recruiters/{id:[0-9]+}/resume", AssignResumeHandler(svr, recruiterRepo), put)
	svr.RegisterAPIRoute("/recruiters/{id:[0-9]+}/resume-history", ResumeHistoryHandler(svr, recruiterRepo), get)
	svr.RegisterAPIRoute("/recruiters/{id:[0-9]+}/communications", ListCommunicationsHandler(svr, recruiterRepo), get)
	svr.RegisterAPIRoute("/recruiters/{id:[0-9]+}/communications", AddCommunicationHandler(svr, recruiterRepo), post)
	svr.RegisterAPIRoute("/recruiters/{id:[0-9]+}/events", ListRecruiterEventsHandler(svr, recruiterRepo), get)
	svr.RegisterAPIRoute("/recruiters/{id:[0-9]+}/events", AddRecruiterEventHandler(svr, recruiterRepo), post)
	svr.RegisterAPIRoute("/recruiter-events/{id:[0-9]+}", UpdateRecruiterEventHandler(svr, recruiterRepo), put)
	svr.RegisterAPIRoute("/recruiter-events/{id:[0-9]+}", DeleteRecruiterEventHandler(svr, recruiterRepo), del)
	svr.RegisterAPIRoute("/recruiters/{id:[0-9]+}/managers", RecruiterManagersHandler(svr, recruiterRepo), get)
	svr.RegisterAPIRoute("/recruiters/{id:[0-9]+}/managers", LinkManagerHandler(svr, recruiterRepo), post)
	svr.RegisterAPIRoute("/recruiters/{id:[0-9]+}/managers/{manager_id:[0-9]+}", UpdateManagerLinkHandler(svr, recruiterRepo), put)
	svr.RegisterAPIRoute("/recruiters/{id:[0-9]+}/managers/{manager_id:[0-9]+}", UnlinkManagerHandler(svr, recruiterRepo), del)
	svr.RegisterAPIRoute("/recruiters/{id:[0-9]+}/companies", RecruiterCompaniesHandler(svr, recruiterRepo), get)

	// managers
	svr.RegisterAPIRoute("/managers", ListManagersHandler(svr, managerRepo), get)
	svr.RegisterAPIRoute("/managers", CreateManagerHandler(svr, managerRepo), post)
	svr.RegisterAPIRoute("/managers/{id:[0-9]+}", GetManagerHandler(svr, managerRepo), get)
	svr.RegisterAPIRoute("/managers/{id:[0-9]+}", UpdateManagerHandler(svr, managerRepo), put)
	svr.RegisterAPIRoute("/managers/{id:[0-9]+}", DeleteManagerHandler(svr, managerRepo), del)
	svr.RegisterAPIRoute("/managers/{id:[0-9]+}/recruiters", ManagerRecruitersHandler(svr, recruiterRepo), get)

	// resume versions and tags
	svr.RegisterAPIRoute("/resume-versions", ListResumeVersionsHandler(svr, resumeRepo), get)
	svr.RegisterAPIRoute("/resume-versions", CreateResumeVersionHandler(svr, resumeRepo), post)
	svr.RegisterAPIRoute("/resume-versions/metrics", ResumeMetricsHandler(svr, resumeRepo), get)
	svr.RegisterAPIRoute("/resume-versions/{id:[0-9]+}", GetResumeVersionHandler(svr, resumeRepo), get)
	svr.RegisterAPIRoute("/resume-versions/{id:[0-9]+}", UpdateResumeVersionHandler(svr, resumeRepo), put)
	svr.RegisterAPIRoute("/resume-versions/{id:[0-9]+}", DeleteResumeVersionHandler(svr, resumeRepo), del)
	svr.RegisterAPIRoute("/resume-versions/{id:[0-9]+}/tags", ResumeTagsHandler(svr, resumeRepo), get)
	svr.RegisterAPIRoute("/resume-versions/{id:[0-9]+}/tags", AddResumeTagHandler(svr, resumeRepo, tagRepo), post)
	svr.RegisterAPIRoute("/resume-versions/{id:[0-9]+}/tags", SetResumeTagsHandler(svr, resumeRepo), put)
	svr.RegisterAPIRoute("/resume-versions/{id:[0-9]+}/tags/{tag_id:[0-9]+}", RemoveResumeTagHandler(svr, resumeRepo), del)
	svr.RegisterAPIRoute("/tags", ListTagsHandler(svr, tagRepo), get)
	svr.RegisterAPIRoute("/tags", CreateTagHandler(svr, tagRepo), post)
	svr.RegisterAPIRoute("/tags/{id:[0-9]+}", GetTagHandler(svr, tagRepo), get)
	svr.RegisterAPIRoute("/tags/{id:[0-9]+}", UpdateTagHandler(svr, tagRepo), put)
	svr.RegisterAPIRoute("/tags/{id:[0-9]+}", DeleteTagHandler(svr, tagRepo), del)

	// job postings
	svr.RegisterAPIRoute("/job-postings", ListJobPostingsHandler(svr, jobPostingRepo), get)
	svr.RegisterAPIRoute("/job-postings", CreateJobPostingHandler(svr, jobPostingRepo), post)
	svr.RegisterAPIRoute("/job-postings/{id:[0-9]+}", GetJobPostingHandler(svr, jobPostingRepo), get)

	// applications
	svr.RegisterAPIRoute("/applications", ListApplicationsHandler(svr, applicationRepo), get)
	svr.RegisterAPIRoute("/applications", CreateApplicationHandler(svr, applicationRepo), post)
	svr.RegisterAPIRoute("/applications/search", SearchApplicationsHandler(svr, applicationRepo), get)
	svr.RegisterAPIRoute("/applications/export.csv", ExportApplicationsHandler(svr, applicationRepo), get)
	svr.RegisterAPIRoute("/applications/follow-ups", FollowUpsHandler(svr, applicationRepo), get)
	svr.RegisterAPIRoute("/applications/sources", ApplicationSourcesHandler(svr), get)
	svr.RegisterAPIRoute("/applications/{id:[0-9]+}", GetApplicationHandler(svr, applicationRepo), get)
	svr.RegisterAPIRoute("/applications/{id:[0-9]+}", UpdateApplicationHandler(svr, applicationRepo), put)
	svr.RegisterAPIRoute("/applications/{id:[0-9]+}", DeleteApplicationHandler(svr, applicationRepo), del)
	svr.RegisterAPIRoute("/applications/{id:[0-9]+}/status", UpdateApplicationStatusHandler(svr, applicationRepo), put)
	svr.RegisterAPIRoute("/applications/{id:[0-9]+}/resume", UpdateApplicationResumeHandler(svr, applicationRepo), put)
	svr.RegisterAPIRoute("/applications/{id:[0-9]+}/timeline", TimelineHandler(svr, applicationRepo), get)
	svr.RegisterAPIRoute("/applications/{id:[0-9]+}/timeline", AddTimelineEventHandler(svr, applicationRepo), post)
	svr.RegisterAPIRoute("/application-events/{id:[0-9]+}", UpdateTimelineEventHandler(svr, applicationRepo), put)
	svr.RegisterAPIRoute("/application-events/{id:[0-9]+}", DeleteTimelineEventHandler(svr, applicationRepo), del)

	// dashboard
	svr.RegisterAPIRoute("/dashboard/stats", DashboardStatsHandler(svr, dashboardRepo), get)
	svr.RegisterAPIRoute("/dashboard/recent-activity", RecentActivityHandler(svr, dashboardRepo), get)

	// text and files
	svr.RegisterAPIRoute("/prettify", PrettifyHandler(svr), post)
	svr.RegisterAPIRoute("/files/download-url", DownloadURLHandler(svr), post)
	svr.RegisterAPIRoute("/files/list", ListFilesHandler(svr), get)
	svr.RegisterAPIRoute("/files/upload", UploadFileHandler(svr), post)

	// machine tasks
	svr.RegisterRoute("/x/task/follow-up-digest", TriggerFollowUpDigest(svr, applicationRepo, metaRepo), post)
	svr.RegisterRoute("/x/task/clear-expired-tokens", TriggerExpiredUserSignOnTokensTask(svr, userRepo), post)
}
