package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/sessions"

	"restaurant-booking-platform/internal/cart"
	"restaurant-booking-platform/internal/config"
	"restaurant-booking-platform/internal/handlers"
	"restaurant-booking-platform/internal/middleware"
	"restaurant-booking-platform/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Session store
	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   !cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	}

	// Cart snapshots live in Redis when one is configured; otherwise they
	// ride along in the cookie session
	var snapshots cart.SnapshotStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("Warning: Redis unreachable at %s, falling back to session cart storage: %v", cfg.Redis.Addr, err)
		} else {
			snapshots = cart.NewRedisStore(client, cfg.Redis.CartTTL)
			log.Printf("Cart snapshots stored in Redis at %s", cfg.Redis.Addr)
		}
		cancel()
	} else {
		log.Println("REDIS_ADDR not set, carts stored in the cookie session")
	}

	// Reservation backend, or the built-in mock when none is configured
	var menuAPI services.MenuAPI
	var availabilityAPI services.AvailabilityAPI
	var bookingAPI services.BookingAPI
	if cfg.ReservationAPI.BaseURL != "" {
		client := services.NewReservationClient(cfg.ReservationAPI)
		menuAPI, availabilityAPI, bookingAPI = client, client, client
		log.Printf("Using reservation backend at %s", cfg.ReservationAPI.BaseURL)
	} else {
		mock := &services.MockReservationAPI{}
		menuAPI, availabilityAPI, bookingAPI = mock, mock, mock
		log.Println("RESERVATION_API_URL not set, using built-in mock data")
	}

	resolvers := services.NewResolverRegistry(availabilityAPI)
	submitter := services.NewBookingSubmitter(bookingAPI)

	// Middleware and handlers
	sessionMiddleware := middleware.NewSessionMiddleware(store)
	authMiddleware := middleware.NewAuthMiddleware(store)

	menuHandler := handlers.NewMenuHandler(menuAPI)
	cartHandler := handlers.NewCartHandler(menuAPI, snapshots, store)
	bookingHandler := handlers.NewBookingHandler(resolvers, submitter, snapshots, store)
	authHandler := handlers.NewAuthHandler(store, cfg.IsDevelopment())

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sessionMiddleware.EnsureSessionID)
	r.Use(authMiddleware.LoadUser)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/menu", http.StatusSeeOther)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	r.Get("/menu", menuHandler.MenuPage)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.ViewCart)
		r.Post("/add", cartHandler.AddToCart)
		r.Post("/update", cartHandler.UpdateCartItem)
		r.Post("/remove", cartHandler.RemoveFromCart)
		r.Post("/clear", cartHandler.ClearCart)
	})

	r.Route("/book", func(r chi.Router) {
		r.Get("/", bookingHandler.BookingPage)
		r.Get("/slots", bookingHandler.Slots)
		r.Post("/time", bookingHandler.SelectTime)
		r.Post("/table", bookingHandler.SelectTable)
		r.Post("/submit", bookingHandler.Submit)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Get("/bookings/confirmation", bookingHandler.Confirmation)
	})

	r.Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("Server starting on http://%s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
