package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aurelia-jewels/aurelia-backend/api/controllers"
	"github.com/aurelia-jewels/aurelia-backend/api/middleware"
	"github.com/aurelia-jewels/aurelia-backend/internal/accounts"
	"github.com/aurelia-jewels/aurelia-backend/internal/attributes"
	"github.com/aurelia-jewels/aurelia-backend/internal/catalog"
	"github.com/aurelia-jewels/aurelia-backend/internal/categories"
	"github.com/aurelia-jewels/aurelia-backend/internal/content"
	"github.com/aurelia-jewels/aurelia-backend/internal/orders"
	"github.com/aurelia-jewels/aurelia-backend/internal/payments"
	"github.com/aurelia-jewels/aurelia-backend/internal/reviews"
	"github.com/aurelia-jewels/aurelia-backend/internal/wishlist"
	"github.com/aurelia-jewels/aurelia-backend/pkg/auth/session"
	"github.com/aurelia-jewels/aurelia-backend/pkg/config"
	"github.com/aurelia-jewels/aurelia-backend/pkg/db"
	"github.com/aurelia-jewels/aurelia-backend/pkg/enums"
	"github.com/aurelia-jewels/aurelia-backend/pkg/logger"
	"github.com/aurelia-jewels/aurelia-backend/pkg/metrics"
	"github.com/aurelia-jewels/aurelia-backend/pkg/redis"
	"github.com/aurelia-jewels/aurelia-backend/pkg/storage"
)

// Services bundles everything the router mounts.
type Services struct {
	Accounts   accounts.Service
	Catalog    catalog.Service
	Categories categories.Service
	Attributes attributes.Service
	Orders     orders.Service
	Wishlist   wishlist.Service
	Reviews    reviews.Service
	Content    content.Service
	Payments   payments.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	uploads *storage.Store,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	otpPolicy := middleware.NewAuthRateLimitPolicy(
		"otp",
		cfg.AuthRateLimit.OTPWindow,
		cfg.AuthRateLimit.OTPIPLimit,
		cfg.AuthRateLimit.OTPEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbClient, redisClient, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	if uploads != nil {
		prefix := strings.TrimSuffix(uploads.PublicPrefix(), "/")
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(uploads.Dir())))
		r.Get(prefix+"/*", fs.ServeHTTP)
	}

	r.Get("/api/public/ping", controllers.PublicPing())

	r.Route("/api/v1", func(r chi.Router) {
		// storefront reads need no credentials
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Catalog, logg))
			r.Get("/trending", controllers.ProductsTrending(svcs.Catalog, logg))
			r.Get("/best-selling", controllers.ProductsBestSelling(svcs.Catalog, logg))
			r.Get("/on-sale", controllers.ProductsOnSale(svcs.Catalog, logg))
			r.Get("/latest", controllers.ProductsLatestByCategory(svcs.Catalog, logg))
			r.Get("/{productId}", controllers.ProductGet(svcs.Catalog, logg))
			r.Get("/{productId}/reviews", controllers.ReviewListByProduct(svcs.Reviews, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(svcs.Categories, logg))
			r.Get("/{categoryId}", controllers.CategoryGet(svcs.Categories, logg))
		})
		r.Get("/metals", controllers.MetalList(svcs.Attributes, logg))
		r.Get("/diamond-shapes", controllers.DiamondShapeList(svcs.Attributes, logg))
		r.Get("/shanks", controllers.ShankList(svcs.Attributes, logg))

		r.Get("/banners", controllers.BannerList(svcs.Content, logg))
		r.Get("/blogs", controllers.BlogList(svcs.Content, logg))
		r.Get("/testimonials", controllers.TestimonialList(svcs.Content, logg))
		r.Get("/gifting-guides", controllers.GiftingGuideList(svcs.Content, logg))
		r.Get("/new-arrivals", controllers.NewArrivalList(svcs.Content, logg))
		r.Get("/about", controllers.AboutPageGet(svcs.Content, logg))
		r.Post("/contact", controllers.ContactMessageCreate(svcs.Content, logg))
		r.Post("/custom-jewels", controllers.CustomJewelCreate(svcs.Content, cfg.Uploads, logg))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(svcs.Accounts, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Accounts, logg))
			r.With(middleware.AuthRateLimit(otpPolicy, redisClient, logg)).Post("/send-otp", controllers.AuthSendOTP(svcs.Accounts, logg))
			r.Post("/verify-otp", controllers.AuthVerifyOTP(svcs.Accounts, logg))
			r.With(middleware.AuthRateLimit(otpPolicy, redisClient, logg)).Post("/forgot-password", controllers.AuthForgotPassword(svcs.Accounts, logg))
			r.Post("/reset-password", controllers.AuthResetPassword(svcs.Accounts, logg))
			r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.AuthLogout(svcs.Accounts, logg))
		})

		// customer surface
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Get("/ping", controllers.PrivatePing())
			r.Get("/accounts/me", controllers.AccountsMe(svcs.Accounts, logg))

			r.Route("/order-details", func(r chi.Router) {
				r.Post("/", controllers.OrderDetailCreate(svcs.Orders, logg))
				r.Get("/", controllers.OrderDetailListMine(svcs.Orders, logg))
				r.Put("/{productId}", controllers.OrderDetailUpdate(svcs.Orders, logg))
				r.Delete("/{detailId}", controllers.OrderDetailDelete(svcs.Orders, logg))
			})
			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderPlace(svcs.Orders, logg))
				r.Get("/mine", controllers.OrderListMine(svcs.Orders, logg))
				r.Get("/saved-address", controllers.OrderSavedAddress(svcs.Orders, logg))
				r.Get("/{orderNumber}", controllers.OrderGet(svcs.Orders, logg))
				r.Get("/{orderNumber}/summary.pdf", controllers.OrderSummaryPDF(svcs.Orders, logg))
			})
			r.Route("/payments", func(r chi.Router) {
				r.Post("/order", controllers.PaymentOrderCreate(svcs.Payments, logg))
				r.Post("/verify", controllers.PaymentVerify(svcs.Payments, logg))
			})
			r.Route("/wishlist", func(r chi.Router) {
				r.Post("/", controllers.WishlistAdd(svcs.Wishlist, logg))
				r.Get("/", controllers.WishlistListMine(svcs.Wishlist, logg))
				r.Delete("/{itemId}", controllers.WishlistRemove(svcs.Wishlist, logg))
			})
			r.Post("/reviews", controllers.ReviewCreate(svcs.Reviews, cfg.Uploads, logg))
		})
	})

	// admin surface
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(string(enums.AccountRoleAdmin), logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", controllers.AccountsList(svcs.Accounts, logg))
			r.Get("/{accountId}", controllers.AccountsGet(svcs.Accounts, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(svcs.Catalog, cfg.Uploads, logg))
			r.Put("/{productId}", controllers.ProductUpdate(svcs.Catalog, cfg.Uploads, logg))
			r.Delete("/{productId}", controllers.ProductDelete(svcs.Catalog, logg))
			r.Post("/delete", controllers.ProductsDelete(svcs.Catalog, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CategoryCreate(svcs.Categories, cfg.Uploads, logg))
			r.Put("/{categoryId}", controllers.CategoryUpdate(svcs.Categories, cfg.Uploads, logg))
			r.Delete("/{categoryId}", controllers.CategoryDelete(svcs.Categories, logg))
			r.Post("/{categoryId}/subcategories", controllers.SubcategoryAdd(svcs.Categories, logg))
			r.Delete("/{categoryId}/subcategories/{subcategoryId}", controllers.SubcategoryRemove(svcs.Categories, logg))
			r.Post("/{categoryId}/styles", controllers.StyleAdd(svcs.Categories, cfg.Uploads, logg))
			r.Delete("/{categoryId}/styles/{styleName}", controllers.StyleRemove(svcs.Categories, logg))
		})
		r.Route("/metals", func(r chi.Router) {
			r.Post("/", controllers.MetalCreate(svcs.Attributes, logg))
			r.Delete("/{metalId}", controllers.MetalDelete(svcs.Attributes, logg))
		})
		r.Route("/diamond-shapes", func(r chi.Router) {
			r.Post("/", controllers.DiamondShapeCreate(svcs.Attributes, cfg.Uploads, logg))
			r.Delete("/{shapeId}", controllers.DiamondShapeDelete(svcs.Attributes, logg))
		})
		r.Route("/shanks", func(r chi.Router) {
			r.Post("/", controllers.ShankCreate(svcs.Attributes, cfg.Uploads, logg))
			r.Delete("/{shankId}", controllers.ShankDelete(svcs.Attributes, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(svcs.Orders, logg))
			r.Get("/{orderNumber}", controllers.OrderGet(svcs.Orders, logg))
			r.Put("/{orderNumber}/status", controllers.OrderUpdateStatus(svcs.Orders, logg))
			r.Get("/{orderNumber}/summary.pdf", controllers.OrderSummaryPDF(svcs.Orders, logg))
		})
		r.Get("/order-details", controllers.OrderDetailListAll(svcs.Orders, logg))
		r.Get("/wishlist", controllers.WishlistListAll(svcs.Wishlist, logg))
		r.Delete("/reviews/{reviewId}", controllers.ReviewDelete(svcs.Reviews, logg))

		r.Route("/banners", func(r chi.Router) {
			r.Post("/", controllers.BannerCreate(svcs.Content, cfg.Uploads, logg))
			r.Put("/{bannerId}", controllers.BannerUpdate(svcs.Content, cfg.Uploads, logg))
			r.Delete("/{bannerId}", controllers.BannerDelete(svcs.Content, logg))
		})
		r.Route("/blogs", func(r chi.Router) {
			r.Post("/", controllers.BlogCreate(svcs.Content, cfg.Uploads, logg))
			r.Put("/{blogId}", controllers.BlogUpdate(svcs.Content, cfg.Uploads, logg))
			r.Delete("/{blogId}", controllers.BlogDelete(svcs.Content, logg))
		})
		r.Route("/testimonials", func(r chi.Router) {
			r.Post("/", controllers.TestimonialCreate(svcs.Content, cfg.Uploads, logg))
			r.Put("/{testimonialId}", controllers.TestimonialUpdate(svcs.Content, cfg.Uploads, logg))
			r.Delete("/{testimonialId}", controllers.TestimonialDelete(svcs.Content, logg))
		})
		r.Route("/gifting-guides", func(r chi.Router) {
			r.Post("/", controllers.GiftingGuideCreate(svcs.Content, cfg.Uploads, logg))
			r.Put("/{guideId}", controllers.GiftingGuideUpdate(svcs.Content, cfg.Uploads, logg))
			r.Delete("/{guideId}", controllers.GiftingGuideDelete(svcs.Content, logg))
		})
		r.Route("/new-arrivals", func(r chi.Router) {
			r.Post("/", controllers.NewArrivalCreate(svcs.Content, cfg.Uploads, logg))
			r.Put("/{arrivalId}", controllers.NewArrivalUpdate(svcs.Content, cfg.Uploads, logg))
			r.Delete("/{arrivalId}", controllers.NewArrivalDelete(svcs.Content, logg))
		})
		r.Put("/about", controllers.AboutPageSave(svcs.Content, cfg.Uploads, logg))
		r.Route("/contact-messages", func(r chi.Router) {
			r.Get("/", controllers.ContactMessageList(svcs.Content, logg))
			r.Delete("/{messageId}", controllers.ContactMessageDelete(svcs.Content, logg))
		})
		r.Route("/custom-jewels", func(r chi.Router) {
			r.Get("/", controllers.CustomJewelList(svcs.Content, logg))
			r.Delete("/{requestId}", controllers.CustomJewelDelete(svcs.Content, logg))
		})
	})

	return r
}
