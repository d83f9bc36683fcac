package services

import (
	"context"
	"time"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	dashboardListLimit = 5
	defaultStatsDays   = 7
	maxStatsDays       = 365
)

type DashboardService interface {
	// Get returns *dto.AdminDashboard, *dto.EmployerDashboard or *dto.SeekerDashboard.
	Get(ctx context.Context, db *gorm.DB, caller dto.Caller) (interface{}, error)
	Stats(ctx context.Context, db *gorm.DB, caller dto.Caller, days *int) (*dto.DashboardStats, error)
}

type dashboardBuilder func(s *dashboardService, db *gorm.DB, userID uint) (interface{}, error)

var dashboardBuilders = map[models.UserRole]dashboardBuilder{
	models.UserRoleAdmin:    (*dashboardService).adminDashboard,
	models.UserRoleEmployer: (*dashboardService).employerDashboard,
	models.UserRoleSeeker:   (*dashboardService).seekerDashboard,
}

type statsScope func(userID uint, since time.Time) (repositories.JobCountQuery, repositories.ApplicationCountQuery)

var statsScopes = map[models.UserRole]statsScope{
	models.UserRoleAdmin: func(_ uint, since time.Time) (repositories.JobCountQuery, repositories.ApplicationCountQuery) {
		return repositories.JobCountQuery{Since: &since}, repositories.ApplicationCountQuery{Since: &since}
	},
	models.UserRoleEmployer: func(userID uint, since time.Time) (repositories.JobCountQuery, repositories.ApplicationCountQuery) {
		return repositories.JobCountQuery{EmployerID: &userID, Since: &since},
			repositories.ApplicationCountQuery{EmployerID: &userID, Since: &since}
	},
	// Seekers see the market: active jobs opened in the window and their own applications.
	models.UserRoleSeeker: func(userID uint, since time.Time) (repositories.JobCountQuery, repositories.ApplicationCountQuery) {
		return repositories.JobCountQuery{ActiveOnly: true, Since: &since},
			repositories.ApplicationCountQuery{ApplicantID: &userID, Since: &since}
	},
}

type dashboardService struct {
	dashboardRepo repositories.DashboardRepository
	now           func() time.Time
}

func NewDashboardService(dashboardRepo repositories.DashboardRepository) DashboardService {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *dashboardService) Get(ctx context.Context, db *gorm.DB, caller dto.Caller) (interface{}, error) {
	build, ok := dashboardBuilders[caller.Role]
	if !ok {
		return nil, apperrors.ErrPermissionDenied("dashboard", "No dashboard is available for this role")
	}
	return build(s, db, caller.ID)
}

func (s *dashboardService) Stats(ctx context.Context, db *gorm.DB, caller dto.Caller, days *int) (*dto.DashboardStats, error) {
	scope, ok := statsScopes[caller.Role]
	if !ok {
		return nil, apperrors.ErrPermissionDenied("dashboard", "No statistics are available for this role")
	}

	window := defaultStatsDays
	if days != nil {
		window = *days
	}
	if window < 1 || window > maxStatsDays {
		return nil, apperrors.ValidationError(map[string]string{"days": "Must be between 1 and 365"})
	}

	since := s.now().AddDate(0, 0, -window)
	jobQuery, appQuery := scope(caller.ID, since)

	jobs, err := s.dashboardRepo.CountJobs(db, jobQuery)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	apps, err := s.dashboardRepo.CountApplications(db, appQuery)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.DashboardStats{
		Days:                window,
		JobsCreated:         jobs,
		ApplicationsCreated: apps,
	}, nil
}

func (s *dashboardService) adminDashboard(db *gorm.DB, _ uint) (interface{}, error) {
	users, err := s.dashboardRepo.CountUsers(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	jobs, err := s.dashboardRepo.CountJobs(db, repositories.JobCountQuery{})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	apps, err := s.dashboardRepo.CountApplications(db, repositories.ApplicationCountQuery{})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	recentJobs, err := s.dashboardRepo.RecentJobs(db, dashboardListLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	recentApps, err := s.dashboardRepo.RecentApplications(db, repositories.ApplicationCountQuery{}, dashboardListLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.AdminDashboard{
		TotalUsers:         users,
		TotalJobs:          jobs,
		TotalApplications:  apps,
		RecentJobs:         make([]*dto.RecentJob, 0, len(recentJobs)),
		RecentApplications: make([]*dto.RecentApplication, 0, len(recentApps)),
	}
	for _, j := range recentJobs {
		resp.RecentJobs = append(resp.RecentJobs, &dto.RecentJob{
			ID:          j.ID,
			Title:       j.Title,
			CompanyName: j.CompanyName,
			CreatedAt:   j.CreatedAt,
		})
	}
	for i := range recentApps {
		resp.RecentApplications = append(resp.RecentApplications, dto.NewRecentApplication(&recentApps[i]))
	}
	return resp, nil
}

func (s *dashboardService) employerDashboard(db *gorm.DB, employerID uint) (interface{}, error) {
	posted, err := s.dashboardRepo.CountJobs(db, repositories.JobCountQuery{EmployerID: &employerID})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	featured, err := s.dashboardRepo.CountJobs(db, repositories.JobCountQuery{EmployerID: &employerID, FeaturedOnly: true})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	apps, err := s.dashboardRepo.CountApplications(db, repositories.ApplicationCountQuery{EmployerID: &employerID})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	top, err := s.dashboardRepo.TopJobsByViews(db, employerID, dashboardListLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.EmployerDashboard{
		EmployerID:        employerID,
		JobsPosted:        posted,
		TotalApplications: apps,
		FeaturedJobs:      featured,
		TopJobs:           make([]*dto.TopJob, 0, len(top)),
	}
	for _, j := range top {
		resp.TopJobs = append(resp.TopJobs, &dto.TopJob{
			ID:                j.ID,
			Title:             j.Title,
			ViewsCount:        j.ViewsCount,
			ApplicationsCount: j.ApplicationsCount,
		})
	}
	return resp, nil
}

func (s *dashboardService) seekerDashboard(db *gorm.DB, seekerID uint) (interface{}, error) {
	own := repositories.ApplicationCountQuery{ApplicantID: &seekerID}

	total, err := s.dashboardRepo.CountApplications(db, own)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	interviews, err := s.dashboardRepo.CountApplications(db, repositories.ApplicationCountQuery{
		ApplicantID: &seekerID,
		Status:      models.ApplicationStatusInterviewed,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	offers, err := s.dashboardRepo.CountApplications(db, repositories.ApplicationCountQuery{
		ApplicantID: &seekerID,
		Status:      models.ApplicationStatusOffered,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	recent, err := s.dashboardRepo.RecentApplications(db, own, dashboardListLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	recommended, err := s.dashboardRepo.RecommendedJobs(db, seekerID, dashboardListLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.SeekerDashboard{
		SeekerID:          seekerID,
		ApplicationsCount: total,
		Interviews:        interviews,
		Offers:            offers,
		RecentlyApplied:   make([]*dto.RecentApplication, 0, len(recent)),
		RecommendedJobs:   make([]*dto.RecommendedJob, 0, len(recommended)),
	}
	for i := range recent {
		resp.RecentlyApplied = append(resp.RecentlyApplied, dto.NewRecentApplication(&recent[i]))
	}
	for _, j := range recommended {
		resp.RecommendedJobs = append(resp.RecommendedJobs, &dto.RecommendedJob{
			ID:          j.ID,
			Title:       j.Title,
			CompanyName: j.CompanyName,
			Location:    j.Location,
		})
	}
	return resp, nil
}
