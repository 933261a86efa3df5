package http

import (
	"net/http"

	"divineconnect/internal/delivery/http/handler"
	"divineconnect/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router         *mux.Router
	bookingHandler *handler.BookingHandler
	paymentHandler *handler.PaymentHandler
	reviewHandler  *handler.ReviewHandler
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
}

func NewRouter(
	bookingHandler *handler.BookingHandler,
	paymentHandler *handler.PaymentHandler,
	reviewHandler *handler.ReviewHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		bookingHandler: bookingHandler,
		paymentHandler: paymentHandler,
		reviewHandler:  reviewHandler,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Webhook (public; authenticated by its own HMAC signature)
	api.HandleFunc("/payments/webhook", r.paymentHandler.HandleWebhook).Methods(http.MethodPost)

	// Public review listing
	api.HandleFunc("/poojaris/{poojariId}/reviews", r.reviewHandler.ListPoojariReviews).Methods(http.MethodGet)

	// Booking routes (protected)
	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.Use(r.authMiddleware.Authenticate)
	bookings.HandleFunc("", r.bookingHandler.CreateBooking).Methods(http.MethodPost)
	bookings.HandleFunc("", r.bookingHandler.GetMyBookings).Methods(http.MethodGet)
	bookings.HandleFunc("/{id}", r.bookingHandler.GetBookingByID).Methods(http.MethodGet)
	bookings.HandleFunc("/{id}/status", r.bookingHandler.UpdateStatus).Methods(http.MethodPatch)
	bookings.HandleFunc("/{id}/cancel", r.bookingHandler.CancelBooking).Methods(http.MethodPost)

	// Poojari dashboard (protected - poojari only)
	dashboard := api.PathPrefix("/poojari").Subrouter()
	dashboard.Use(r.authMiddleware.Authenticate)
	dashboard.Use(middleware.RequirePoojari)
	dashboard.HandleFunc("/dashboard", r.bookingHandler.GetDashboard).Methods(http.MethodGet)

	// Payment routes (protected - devotee side of checkout)
	payments := api.PathPrefix("/payments").Subrouter()
	payments.Use(r.authMiddleware.Authenticate)
	payments.HandleFunc("/order", r.paymentHandler.CreateOrder).Methods(http.MethodPost)
	payments.HandleFunc("/verify", r.paymentHandler.VerifyPayment).Methods(http.MethodPost)
	payments.HandleFunc("/refund", r.paymentHandler.ProcessRefund).Methods(http.MethodPost)

	// Review routes (protected)
	reviews := api.PathPrefix("/reviews").Subrouter()
	reviews.Use(r.authMiddleware.Authenticate)
	reviews.HandleFunc("", r.reviewHandler.CreateReview).Methods(http.MethodPost)
	reviews.HandleFunc("/{id}", r.reviewHandler.GetReview).Methods(http.MethodGet)
	reviews.HandleFunc("/{id}", r.reviewHandler.UpdateReview).Methods(http.MethodPut)
	reviews.HandleFunc("/{id}", r.reviewHandler.DeleteReview).Methods(http.MethodDelete)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
