package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler        *AuthHandler
	UserHandler        *UserHandler
	JobHandler         *JobHandler
	CategoryHandler    *CategoryHandler
	ApplicationHandler *ApplicationHandler
	ReviewHandler      *ReviewHandler
	DashboardHandler   *DashboardHandler
	PaymentHandler     *PaymentHandler
}
