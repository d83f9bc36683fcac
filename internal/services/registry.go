package services

import (
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/payment"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/storage"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	JobService          JobService
	CategoryService     CategoryService
	ApplicationService  ApplicationService
	ReviewService       ReviewService
	DashboardService    DashboardService
	PaymentService      PaymentService
	NotificationService NotificationService
	DocumentService     DocumentService
}

// Dependencies are the external collaborators the services need.
type Dependencies struct {
	Storage         storage.Storage
	MaxDocumentSize int64
	EmailProvider   email.Provider
	Gateway         payment.Gateway
	Payment         PaymentConfig
}

// NewServiceContainer wires repositories into services.
func NewServiceContainer(deps Dependencies) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	categoryRepo := repositories.NewCategoryRepository()
	applicationRepo := repositories.NewApplicationRepository()
	reviewRepo := repositories.NewReviewRepository()
	paymentRepo := repositories.NewPaymentRepository()
	dashboardRepo := repositories.NewDashboardRepository()

	documentService := NewDocumentService(deps.Storage, deps.MaxDocumentSize)
	notificationService := NewNotificationService(deps.EmailProvider, userRepo, jobRepo)

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo),
		UserService:         NewUserService(userRepo),
		JobService:          NewJobService(jobRepo, categoryRepo, applicationRepo),
		CategoryService:     NewCategoryService(categoryRepo),
		ApplicationService:  NewApplicationService(applicationRepo, jobRepo, documentService, notificationService),
		ReviewService:       NewReviewService(reviewRepo, jobRepo, applicationRepo),
		DashboardService:    NewDashboardService(dashboardRepo),
		PaymentService:      NewPaymentService(deps.Gateway, jobRepo, userRepo, paymentRepo, deps.Payment),
		NotificationService: notificationService,
		DocumentService:     documentService,
	}
}
